package console

import (
	"fmt"

	"github.com/ternarybob/scribo/pkg/models"
)

// Color is an ANSI foreground color code.
type Color uint8

const (
	ColorRed    Color = 31
	ColorGreen  Color = 32
	ColorYellow Color = 33
	ColorBlue   Color = 34
)

// Wrap surrounds s with the color's ANSI escape sequence.
func (c Color) Wrap(s string) string {
	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", uint8(c), s)
}

// colorize applies the per-level line color. Trace lines stay uncolored so
// the verbose noise floor is visually distinct from everything above it.
func colorize(level models.Level, line string) string {
	switch level {
	case models.LevelInfo:
		return ColorGreen.Wrap(line)
	case models.LevelWarn:
		return ColorBlue.Wrap(line)
	case models.LevelError:
		return ColorYellow.Wrap(line)
	case models.LevelCritical:
		return ColorRed.Wrap(line)
	default:
		return line
	}
}
