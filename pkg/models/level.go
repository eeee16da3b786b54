package models

import (
	"fmt"
	"strings"
)

// Level is the severity attached to a log record. Ranks are spaced so the
// ordering survives any future intermediate level, and comparisons are plain
// integer comparisons.
type Level int

const (
	// LevelTrace is the most permissive level. A threshold of LevelTrace
	// filters nothing.
	LevelTrace Level = 10
	LevelInfo  Level = 20
	LevelWarn  Level = 30
	LevelError Level = 40
	// LevelCritical is the most severe level and passes every threshold.
	LevelCritical Level = 50
)

// String returns the canonical upper-case name stored in the database and
// printed on console lines.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRIT"
	default:
		return fmt.Sprintf("unknown level(%d)", int(l))
	}
}

// Passes reports whether a record at this level clears the given sink
// threshold.
func (l Level) Passes(threshold Level) bool {
	return l >= threshold
}

// ParseLevel converts a level alias to its canonical Level. Matching is
// case-insensitive and accepts the common abbreviations for each level.
// Unrecognized strings return (LevelTrace, false) so callers can substitute
// the most permissive level and report the bad alias themselves.
func ParseLevel(alias string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(alias)) {
	case "trace", "trc", "dbg", "dbug", "debug":
		return LevelTrace, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "err", "errr", "error":
		return LevelError, true
	case "crit", "critical":
		return LevelCritical, true
	default:
		return LevelTrace, false
	}
}
