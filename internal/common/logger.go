package common

import (
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
)

var (
	diagLogger arbor.ILogger
	diagMutex  sync.RWMutex
)

// GetLogger returns the operator diagnostics logger. This channel carries
// the pipeline's own failures (bad config aliases, store write errors) and
// is deliberately separate from the log record stream, so a sink failure can
// never feed back into the sinks.
func GetLogger() arbor.ILogger {
	diagMutex.RLock()
	if diagLogger != nil {
		diagMutex.RUnlock()
		return diagLogger
	}
	diagMutex.RUnlock()

	diagMutex.Lock()
	defer diagMutex.Unlock()

	// Double-check after acquiring write lock
	if diagLogger == nil {
		diagLogger = arbor.NewLogger().WithConsoleWriter(models.WriterConfiguration{
			Type:             models.LogWriterTypeConsole,
			TimeFormat:       "15:04:05",
			TextOutput:       true,
			DisableTimestamp: false,
		})
	}
	return diagLogger
}

// SetLogger replaces the diagnostics logger. Embedders that already run
// arbor can route pipeline diagnostics into their own writers.
func SetLogger(logger arbor.ILogger) {
	diagMutex.Lock()
	defer diagMutex.Unlock()
	diagLogger = logger
}
