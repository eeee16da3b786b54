// Package scribo is an embeddable logging facility that records structured
// log events into a queryable SQLite store instead of (or in addition to) a
// text stream.
//
// The idea is to separate what is recorded from what is viewed: log often
// and in detail, persist everything verbosely, and declare named SQL views
// over the stored records for the ways you actually want to read them —
// exclude a noisy file, keep only warn+ from the last session, compare two
// sessions. Views cost nothing at write time and live in the database file,
// so views declared during development can simply stay.
//
// Producer calls are synchronous only up to the console write and a
// non-blocking enqueue; a single background consumer owns the store
// connection and persists records asynchronously. Logging failures are
// reported on a separate diagnostics channel and never surface to the
// caller.
package scribo

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/ternarybob/scribo/pkg/config"
	"github.com/ternarybob/scribo/pkg/models"
)

var (
	defaultMu          sync.Mutex
	defaultPipeline    *Pipeline
	defaultInitialized atomic.Bool
)

// Init initializes the default pipeline explicitly instead of lazily on the
// first producer call. A nil config means defaults. Idempotent: later calls
// (and concurrent first calls) are no-ops, so it is safe to call it many
// times or never. The returned error reports a failed durable-sink startup;
// the pipeline still runs best-effort without it.
func Init(cfg *config.Config) error {
	return initDefault(cfg)
}

// initDefault performs the guarded one-time construction of the default
// pipeline: check the flag, take the lock, check again, build.
func initDefault(cfg *config.Config) error {
	if defaultInitialized.Load() {
		return nil
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultInitialized.Load() {
		return nil
	}

	p, err := New(cfg)
	defaultPipeline = p
	defaultInitialized.Store(true)
	return err
}

// Default returns the process-wide pipeline, initializing it with default
// configuration on first use.
func Default() *Pipeline {
	if !defaultInitialized.Load() {
		// A store-init failure was already reported to diagnostics; the
		// pipeline itself is always usable.
		_ = initDefault(nil)
	}
	return defaultPipeline
}

// Trace records an event on the default pipeline at the most verbose level.
func Trace(msg ...string) {
	Default().dispatch(models.NewRecord(models.LevelTrace, joinMessage(msg)))
}

// Info records a routine operational event on the default pipeline.
func Info(msg ...string) {
	Default().dispatch(models.NewRecord(models.LevelInfo, joinMessage(msg)))
}

// Warn records a suspicious but non-failing condition on the default
// pipeline.
func Warn(msg ...string) {
	Default().dispatch(models.NewRecord(models.LevelWarn, joinMessage(msg)))
}

// Error records a definite failure on the default pipeline.
func Error(msg ...string) {
	Default().dispatch(models.NewRecord(models.LevelError, joinMessage(msg)))
}

// Critical records a process-threatening failure on the default pipeline.
func Critical(msg ...string) {
	Default().dispatch(models.NewRecord(models.LevelCritical, joinMessage(msg)))
}

// Flush blocks until the default pipeline has durably processed every record
// enqueued before the call, or fails with ErrFlushTimeout.
func Flush() error {
	return Default().Flush()
}

// DumpRecords prints every stored row of the default pipeline to w.
func DumpRecords(w io.Writer) error {
	return Default().DumpRecords(w)
}

// DumpConfig prints the default pipeline's resolved configuration to w.
func DumpConfig(w io.Writer) error {
	return Default().DumpConfig(w)
}
