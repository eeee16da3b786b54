package scribo

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/scribo/pkg/config"
)

// The default pipeline is process-wide state, so everything about it is
// exercised in one test against an in-memory store.
func TestGlobalPipeline(t *testing.T) {
	cfg := config.Default()
	cfg.Console.Enabled = false
	cfg.Store.Path = config.InMemoryPath

	require.NoError(t, Init(cfg))

	// Init is idempotent: repeated and concurrent calls are no-ops.
	require.NoError(t, Init(cfg))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = Init(nil)
		}()
	}
	wg.Wait()

	p := Default()
	require.NotNil(t, p)
	assert.Same(t, p, Default())
	assert.Equal(t, config.InMemoryPath, p.cfg.Store.Path)

	Trace("global trace")
	Info("global info")
	Warn()
	Error("global error")
	Critical("global", "critical")

	require.NoError(t, Flush())

	var count int
	require.NoError(t, p.db.DB().QueryRow(
		"SELECT COUNT(*) FROM log_records WHERE session_id = ?", p.SessionID()).Scan(&count))
	assert.Equal(t, 5, count)

	// Multi-argument messages are joined with spaces.
	var msg string
	require.NoError(t, p.db.DB().QueryRow(
		"SELECT message FROM log_records WHERE level = 'CRIT'").Scan(&msg))
	assert.Equal(t, "global critical", msg)

	// Package-level producers report the application call site, not the
	// wrapper frame inside this package.
	var file string
	require.NoError(t, p.db.DB().QueryRow(
		"SELECT caller_file FROM log_records WHERE level = 'TRACE'").Scan(&file))
	assert.Contains(t, file, "scribo_test.go")

	var buf bytes.Buffer
	require.NoError(t, DumpConfig(&buf))
	assert.Contains(t, buf.String(), p.SessionID())

	buf.Reset()
	require.NoError(t, DumpRecords(&buf))
	assert.Contains(t, buf.String(), "global info")
}
