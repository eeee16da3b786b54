package scribo

import (
	"io"
	"os"

	"github.com/ternarybob/arbor"
)

// Option customizes a pipeline at construction time.
type Option func(*Pipeline)

// WithConsoleOutput redirects the console sink away from stdout. Tests use
// this to capture the rendered lines.
func WithConsoleOutput(w io.Writer) Option {
	return func(p *Pipeline) {
		p.consoleOut = w
	}
}

// WithDiagnostics routes the pipeline's own diagnostics into the given arbor
// logger instead of the shared default.
func WithDiagnostics(logger arbor.ILogger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

func stdout() io.Writer {
	return os.Stdout
}
