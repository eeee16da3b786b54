// Package consumer runs the background sink service: the single goroutine
// that drains the transfer queue and persists records.
package consumer

import (
	"context"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/scribo/internal/queue"
	"github.com/ternarybob/scribo/internal/storage/sqlite"
)

// Consumer is the single-threaded sink service. Exactly one exists per
// pipeline; it is the only code that touches the store connection, which
// keeps the write path free of locking above the queue itself.
type Consumer struct {
	queue     *queue.Queue
	storage   *sqlite.RecordStorage
	sessionID string
	logger    arbor.ILogger

	// limiter throttles store-failure diagnostics so a persistently broken
	// sink cannot flood the operator channel.
	limiter *rate.Limiter
	wg      sync.WaitGroup
}

// New creates a consumer draining q into storage under sessionID.
func New(q *queue.Queue, storage *sqlite.RecordStorage, sessionID string, logger arbor.ILogger) *Consumer {
	return &Consumer{
		queue:     q,
		storage:   storage,
		sessionID: sessionID,
		logger:    logger,
		limiter:   rate.NewLimiter(rate.Every(time.Second), 5),
	}
}

// Start launches the consumer goroutine. The goroutine has daemon
// semantics: nothing joins it at process exit, it simply dies with the
// process. Wait only returns after the queue has been closed and drained.
func (c *Consumer) Start() {
	c.wg.Add(1)
	go c.run()
}

// Wait blocks until the consumer loop has exited.
func (c *Consumer) Wait() {
	c.wg.Wait()
}

// run is the consumer loop: block on dequeue, process, repeat. A failure on
// one item is reported and the loop moves on; a single bad record never
// halts the sink.
func (c *Consumer) run() {
	defer c.wg.Done()

	c.logger.Debug().Str("session_id", c.sessionID).Msg("sink consumer started")

	for {
		req, err := c.queue.Dequeue()
		if err != nil {
			// Queue closed and drained; the pipeline is shutting down.
			c.logger.Debug().Msg("sink consumer stopped")
			return
		}

		c.process(req)
	}
}

// process handles one queued request.
func (c *Consumer) process(req queue.Request) {
	switch r := req.(type) {
	case queue.RecordRequest:
		if err := c.storage.Append(context.Background(), c.sessionID, r.Record); err != nil {
			if c.limiter.Allow() {
				c.logger.Error().Err(err).Msg("failed to persist log record, record dropped")
			}
		}

	case queue.FlushRequest:
		// Everything enqueued before this sentinel has already been
		// processed, so the flush caller's records are durable.
		close(r.Ack)

	default:
		c.logger.Warn().Msg("unknown request type on transfer queue, dropped")
	}
}
