package scribo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/scribo/internal/common"
	"github.com/ternarybob/scribo/internal/console"
	"github.com/ternarybob/scribo/internal/consumer"
	"github.com/ternarybob/scribo/internal/queue"
	"github.com/ternarybob/scribo/internal/storage/sqlite"
	"github.com/ternarybob/scribo/pkg/config"
	"github.com/ternarybob/scribo/pkg/models"
)

// ErrFlushTimeout is returned by Flush when the sentinel is not acknowledged
// within the configured timeout.
var ErrFlushTimeout = errors.New("flush timed out")

// Pipeline is one complete record pipeline: producer entry points, the two
// sink filters, the transfer queue, the sink consumer and the durable store.
// The package-level API runs a process-wide default pipeline; embedders and
// tests can hold as many isolated instances as they like.
type Pipeline struct {
	cfg    *config.Config
	logger arbor.ILogger

	consoleEnabled bool
	consoleLevel   models.Level
	console        *console.Writer
	consoleOut     io.Writer

	storeEnabled atomic.Bool
	storeLevel   models.Level
	q            *queue.Queue
	consumer     *consumer.Consumer
	db           *sqlite.DB
	storage      *sqlite.RecordStorage
	sessionID    string

	// dropLimiter throttles sink-failure diagnostics on the producer side.
	dropLimiter *rate.Limiter
	closeOnce   sync.Once
}

// New builds and starts a pipeline. The returned pipeline is always usable:
// if the durable store cannot be initialized, the error is reported on the
// diagnostics channel, the durable sink is disabled, and the same error is
// returned for embedders that want to act on it. The console sink and the
// producer API keep working either way.
func New(cfg *config.Config, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	p := &Pipeline{
		cfg:         cfg,
		logger:      common.GetLogger(),
		dropLimiter: rate.NewLimiter(rate.Every(time.Second), 5),
	}

	for _, opt := range opts {
		opt(p)
	}

	p.consoleEnabled = cfg.Console.Enabled
	p.consoleLevel = p.resolveLevel("console", cfg.Console.Level)
	p.storeLevel = p.resolveLevel("store", cfg.Store.Level)

	if p.consoleOut == nil {
		p.consoleOut = stdout()
	}
	p.console = console.NewWriter(p.consoleOut, cfg.Console.Color)

	var initErr error
	if cfg.Store.Enabled {
		db, err := sqlite.New(p.logger, &cfg.Store, cfg.AllViews())
		if err != nil {
			// Best effort from here on: logging must never outrank the
			// application it instruments, so the pipeline runs on without
			// the durable sink.
			p.logger.Error().Err(err).Msg("failed to initialize log store, durable sink disabled")
			initErr = err
		} else {
			p.db = db
			p.storage = sqlite.NewRecordStorage(db, p.logger)
			p.sessionID = common.NewSessionID()
			p.q = queue.New()
			p.consumer = consumer.New(p.q, p.storage, p.sessionID, p.logger)
			p.consumer.Start()
			p.storeEnabled.Store(true)
		}
	}

	return p, initErr
}

// resolveLevel parses a configured level alias, substituting the most
// permissive level with a single diagnostic when the alias is unrecognized.
func (p *Pipeline) resolveLevel(sink, alias string) models.Level {
	level, ok := models.ParseLevel(alias)
	if !ok {
		p.logger.Warn().
			Str("sink", sink).
			Str("alias", alias).
			Msg("unrecognized log level alias, falling back to TRACE")
	}
	return level
}

// Trace records an event at the most verbose level.
func (p *Pipeline) Trace(msg ...string) {
	p.dispatch(models.NewRecord(models.LevelTrace, joinMessage(msg)))
}

// Info records a routine operational event.
func (p *Pipeline) Info(msg ...string) {
	p.dispatch(models.NewRecord(models.LevelInfo, joinMessage(msg)))
}

// Warn records a suspicious but non-failing condition.
func (p *Pipeline) Warn(msg ...string) {
	p.dispatch(models.NewRecord(models.LevelWarn, joinMessage(msg)))
}

// Error records a definite failure the process survived.
func (p *Pipeline) Error(msg ...string) {
	p.dispatch(models.NewRecord(models.LevelError, joinMessage(msg)))
}

// Critical records a failure that threatens the process itself.
func (p *Pipeline) Critical(msg ...string) {
	p.dispatch(models.NewRecord(models.LevelCritical, joinMessage(msg)))
}

// dispatch hands a record to every configured sink. Each sink applies its
// own threshold independently; a record may pass one sink and not the other.
// Sink failures are reported and swallowed: no path out of dispatch can fail
// or block the producing goroutine beyond the synchronous console write.
func (p *Pipeline) dispatch(rec models.Record) {
	if p.consoleEnabled && rec.Level.Passes(p.consoleLevel) {
		if err := p.console.Write(rec); err != nil && p.dropLimiter.Allow() {
			p.logger.Error().Err(err).Msg("console sink write failed")
		}
	}

	if p.storeEnabled.Load() && rec.Level.Passes(p.storeLevel) {
		// Passing the filter means "enqueued for asynchronous write", not
		// "durably stored"; Flush is the boundary for the latter.
		if err := p.q.Enqueue(queue.RecordRequest{Record: rec}); err != nil && p.dropLimiter.Allow() {
			p.logger.Error().Err(err).Msg("unable to enqueue log record, record dropped")
		}
	}
}

// Flush blocks until every record enqueued before the call has been durably
// processed, or until the configured timeout elapses. It enqueues a sentinel
// behind the caller's records; the consumer acknowledges it in FIFO order,
// so the acknowledgment proves everything ahead of it was written.
func (p *Pipeline) Flush() error {
	if !p.storeEnabled.Load() {
		return nil
	}

	req := queue.FlushRequest{
		Token: common.NewFlushToken(),
		Ack:   make(chan struct{}),
	}
	if err := p.q.Enqueue(req); err != nil {
		return fmt.Errorf("failed to enqueue flush sentinel: %w", err)
	}

	timeout := p.cfg.FlushTimeout()
	select {
	case <-req.Ack:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("flush sentinel %s not acknowledged after %s: %w",
			req.Token, timeout, ErrFlushTimeout)
	}
}

// SessionID returns the session identifier tagged onto this pipeline's
// records, or the empty string when the durable sink is disabled.
func (p *Pipeline) SessionID() string {
	return p.sessionID
}

// Close shuts the pipeline down for embedders and tests: the queue stops
// accepting records, the consumer drains what is left, then the store
// connection is released. The default pipeline is never closed; its consumer
// has daemon semantics and dies with the process.
func (p *Pipeline) Close() error {
	var err error
	p.closeOnce.Do(func() {
		if !p.storeEnabled.Load() {
			return
		}
		p.storeEnabled.Store(false)
		p.q.Close()
		p.consumer.Wait()
		err = p.db.Close()
	})
	return err
}

// DumpRecords flushes, then prints every stored row to w. On-disk stores are
// reopened read-only for the duration of the dump and the read handle is
// released no matter how the dump ends; the in-memory marker falls back to
// the live connection, which never leaves this process anyway.
func (p *Pipeline) DumpRecords(w io.Writer) error {
	if !p.storeEnabled.Load() {
		return errors.New("durable sink is not enabled")
	}

	if err := p.Flush(); err != nil {
		return err
	}

	ctx := context.Background()
	fmt.Fprintf(w, "# %s>>>>> log_records\n", strings.Repeat("-", 60))

	if p.db.Path() == config.InMemoryPath {
		if err := sqlite.WriteRows(ctx, w, p.db.DB()); err != nil {
			return err
		}
	} else {
		ro, err := sqlite.OpenReadOnly(p.db.Path())
		if err != nil {
			return err
		}
		defer ro.Close()
		if err := sqlite.WriteRows(ctx, w, ro); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "# %s<<<<<\n", strings.Repeat("-", 60))
	return nil
}

// DumpConfig prints the resolved configuration to w. Read-only.
func (p *Pipeline) DumpConfig(w io.Writer) error {
	fmt.Fprintf(w, "# %s>>>>> configuration\n", strings.Repeat("-", 60))
	fmt.Fprintf(w, "console.enabled: %t\n", p.cfg.Console.Enabled)
	fmt.Fprintf(w, "console.level:   %s\n", p.consoleLevel)
	fmt.Fprintf(w, "console.color:   %t\n", p.cfg.Console.Color)
	fmt.Fprintf(w, "store.enabled:   %t\n", p.cfg.Store.Enabled)
	fmt.Fprintf(w, "store.level:     %s\n", p.storeLevel)
	fmt.Fprintf(w, "store.path:      %s\n", p.cfg.Store.Path)
	fmt.Fprintf(w, "store.pragmas:   %s\n", strings.Join(p.cfg.Store.Pragmas, "; "))
	fmt.Fprintf(w, "store.views:     %d\n", len(p.cfg.AllViews()))
	fmt.Fprintf(w, "flush.timeout:   %s\n", p.cfg.FlushTimeout())
	fmt.Fprintf(w, "session_id:      %s\n", p.sessionID)
	fmt.Fprintf(w, "# %s<<<<<\n", strings.Repeat("-", 60))
	return nil
}

// joinMessage converts producer arguments into the optional message payload.
// No arguments means "no message", which is a valid record on its own.
func joinMessage(msg []string) *string {
	if len(msg) == 0 {
		return nil
	}
	s := strings.Join(msg, " ")
	return &s
}
