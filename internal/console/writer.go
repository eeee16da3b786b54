// Package console implements the synchronous stdout sink. It renders one
// compact line per record; the full detail always lands in the durable
// store, so the console intentionally shows less.
package console

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/ternarybob/scribo/pkg/models"
)

// Writer renders records to a single output stream. Writes are serialized
// with a mutex so concurrent producers never interleave lines.
type Writer struct {
	mu    sync.Mutex
	out   io.Writer
	color bool
}

// NewWriter creates a console writer targeting out.
func NewWriter(out io.Writer, color bool) *Writer {
	return &Writer{out: out, color: color}
}

// Write renders the record as LEVEL|unixtime|file:line|message and writes it
// as one line. Write errors are returned to the dispatcher, which reports
// them on the diagnostics channel; they never reach the producing caller.
func (w *Writer) Write(rec models.Record) error {
	line := fmt.Sprintf("%s|%d|%s:%d|%s",
		rec.Level.String(),
		rec.Timestamp.Unix(),
		filepath.Base(rec.CallerFile),
		rec.CallerLine,
		rec.MessageText(),
	)

	if w.color {
		line = colorize(rec.Level, line)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := fmt.Fprintln(w.out, line)
	return err
}
