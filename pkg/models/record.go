package models

import (
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/phuslu/log"
)

// Record is one complete logging event. It is constructed once by the record
// factory and never mutated afterwards, so it can be handed across goroutine
// boundaries without synchronization.
type Record struct {
	// Timestamp is the wall-clock time the producer call was made, not the
	// time the record was eventually persisted.
	Timestamp time.Time

	Level Level

	// Caller location of the application call site, captured by the factory.
	CallerFile string
	CallerLine int
	CallerFunc string

	// Message is nil when the producer was called without a message. An
	// absent message is a valid record, distinct from an empty string.
	Message *string

	ProcessName string
	ProcessID   int

	// ThreadName is fixed to "goroutine"; Go does not expose goroutine
	// names. ThreadID is the runtime goroutine id.
	ThreadName string
	ThreadID   int64
}

const threadName = "goroutine"

var (
	processName = filepath.Base(os.Args[0])
	processID   = os.Getpid()
)

// NewRecord builds a Record for the given level and optional message.
//
// The caller location is read at a fixed stack depth: frame 0 is NewRecord
// itself, frame 1 the severity-specific producer function, frame 2 the
// application call site. Every producer entry point must therefore call
// NewRecord directly. Known limitation: if application code wraps a producer
// function, the reported location is the wrapper's, not its caller's.
func NewRecord(level Level, msg *string) Record {
	r := Record{
		Timestamp:   time.Now(),
		Level:       level,
		Message:     msg,
		ProcessName: processName,
		ProcessID:   processID,
		ThreadName:  threadName,
		ThreadID:    log.Goid(),
	}

	pc, file, line, ok := runtime.Caller(2)
	if ok {
		r.CallerFile = file
		r.CallerLine = line
		if fn := runtime.FuncForPC(pc); fn != nil {
			r.CallerFunc = fn.Name()
		}
	}

	return r
}

// MessageText returns the message payload, or the empty string when the
// message is absent. Formatting paths use this so a nil message never
// panics.
func (r Record) MessageText() string {
	if r.Message == nil {
		return ""
	}
	return *r.Message
}
