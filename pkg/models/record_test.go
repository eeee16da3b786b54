package models

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// produce stands in for a severity-specific producer function, so the
// factory's fixed stack depth lands on this file's caller line.
func produce(msg *string) Record {
	return NewRecord(LevelInfo, msg)
}

func TestNewRecord_CapturesCallSite(t *testing.T) {
	msg := "hello"
	rec := produce(&msg)

	assert.True(t, strings.HasSuffix(rec.CallerFile, "record_test.go"),
		"caller file = %q", rec.CallerFile)
	assert.Greater(t, rec.CallerLine, 0)
	assert.Contains(t, rec.CallerFunc, "TestNewRecord_CapturesCallSite")
}

func TestNewRecord_CapturesIdentity(t *testing.T) {
	rec := produce(nil)

	assert.Equal(t, os.Getpid(), rec.ProcessID)
	assert.NotEmpty(t, rec.ProcessName)
	assert.Equal(t, "goroutine", rec.ThreadName)
	assert.Greater(t, rec.ThreadID, int64(0))
	assert.WithinDuration(t, time.Now(), rec.Timestamp, time.Second)
}

func TestNewRecord_AbsentMessage(t *testing.T) {
	rec := produce(nil)
	require.Nil(t, rec.Message)
	assert.Equal(t, "", rec.MessageText())

	empty := ""
	rec = produce(&empty)
	require.NotNil(t, rec.Message)
	assert.Equal(t, "", rec.MessageText())
}
