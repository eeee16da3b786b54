package queue

import (
	"github.com/ternarybob/scribo/pkg/models"
)

// Request is an item placed on the transfer queue. The two variants are log
// records and meta-requests; the interface is sealed so the consumer's type
// switch stays exhaustive.
type Request interface {
	request()
}

// RecordRequest carries one log record to the durable sink.
type RecordRequest struct {
	Record models.Record
}

func (RecordRequest) request() {}

// FlushRequest is the flush sentinel. The consumer closes Ack once every
// item enqueued before this request has been processed; FIFO ordering makes
// that equivalent to "the caller's earlier records are durably written".
type FlushRequest struct {
	Token string
	Ack   chan struct{}
}

func (FlushRequest) request() {}
