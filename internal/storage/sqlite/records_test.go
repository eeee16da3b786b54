package sqlite

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scribo/pkg/config"
	"github.com/ternarybob/scribo/pkg/models"
)

// setupTestDB creates a test database and returns cleanup function
func setupTestDB(t *testing.T) (*DB, string, func()) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	cfg := &config.StoreConfig{
		Enabled: true,
		Level:   "trace",
		Path:    dbPath,
		Pragmas: []string{"PRAGMA synchronous = OFF"},
	}

	logger := arbor.NewLogger()
	db, err := New(logger, cfg, config.DefaultViews())
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
	}

	return db, dbPath, cleanup
}

func testRecord(level models.Level, msg *string) models.Record {
	return models.Record{
		Timestamp:   time.Now(),
		Level:       level,
		CallerFile:  "/tmp/example/caller.go",
		CallerLine:  42,
		CallerFunc:  "example.Caller",
		Message:     msg,
		ProcessName: "scribo.test",
		ProcessID:   4242,
		ThreadName:  "goroutine",
		ThreadID:    7,
	}
}

func TestRecordStorage_AppendAndCount(t *testing.T) {
	db, _, cleanup := setupTestDB(t)
	defer cleanup()

	storage := NewRecordStorage(db, arbor.NewLogger())
	ctx := context.Background()

	msg := "hello"
	require.NoError(t, storage.Append(ctx, "ses_a", testRecord(models.LevelInfo, &msg)))
	require.NoError(t, storage.Append(ctx, "ses_a", testRecord(models.LevelWarn, &msg)))
	require.NoError(t, storage.Append(ctx, "ses_b", testRecord(models.LevelError, &msg)))

	count, err := storage.CountBySession(ctx, "ses_a")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = storage.CountBySession(ctx, "ses_b")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = storage.CountBySession(ctx, "ses_missing")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRecordStorage_AbsentMessageDistinctFromEmpty(t *testing.T) {
	db, _, cleanup := setupTestDB(t)
	defer cleanup()

	storage := NewRecordStorage(db, arbor.NewLogger())
	ctx := context.Background()

	empty := ""
	require.NoError(t, storage.Append(ctx, "ses_a", testRecord(models.LevelWarn, nil)))
	require.NoError(t, storage.Append(ctx, "ses_a", testRecord(models.LevelWarn, &empty)))

	var nullCount, emptyCount int
	require.NoError(t, db.DB().QueryRow(
		"SELECT COUNT(*) FROM log_records WHERE message IS NULL").Scan(&nullCount))
	require.NoError(t, db.DB().QueryRow(
		"SELECT COUNT(*) FROM log_records WHERE message = ''").Scan(&emptyCount))

	assert.Equal(t, 1, nullCount)
	assert.Equal(t, 1, emptyCount)
}

func TestRecordStorage_MidIncreases(t *testing.T) {
	db, _, cleanup := setupTestDB(t)
	defer cleanup()

	storage := NewRecordStorage(db, arbor.NewLogger())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, storage.Append(ctx, "ses_a", testRecord(models.LevelTrace, nil)))
	}

	rows, err := db.DB().Query("SELECT mid FROM log_records ORDER BY mid")
	require.NoError(t, err)
	defer rows.Close()

	prev := 0
	for rows.Next() {
		var mid int
		require.NoError(t, rows.Scan(&mid))
		assert.Greater(t, mid, prev)
		prev = mid
	}
	require.NoError(t, rows.Err())
}

func TestStartupIsIdempotent(t *testing.T) {
	db, dbPath, cleanup := setupTestDB(t)

	storage := NewRecordStorage(db, arbor.NewLogger())
	require.NoError(t, storage.Append(context.Background(), "ses_a", testRecord(models.LevelInfo, nil)))
	cleanup()

	// Re-running schema and view creation against the existing file must be
	// an error-free no-op, and the old rows must survive.
	cfg := &config.StoreConfig{
		Enabled: true,
		Level:   "trace",
		Path:    dbPath,
		Pragmas: []string{"PRAGMA synchronous = OFF"},
	}
	db2, err := New(arbor.NewLogger(), cfg, config.DefaultViews())
	require.NoError(t, err)
	defer db2.Close()

	storage2 := NewRecordStorage(db2, arbor.NewLogger())
	count, err := storage2.CountBySession(context.Background(), "ses_a")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestViewsInstalled(t *testing.T) {
	db, _, cleanup := setupTestDB(t)
	defer cleanup()

	var viewCount int
	require.NoError(t, db.DB().QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'view'").Scan(&viewCount))
	assert.Equal(t, len(config.DefaultViews()), viewCount)

	// The views are queryable projections over the record table.
	storage := NewRecordStorage(db, arbor.NewLogger())
	msg := "view me"
	require.NoError(t, storage.Append(context.Background(), "ses_a", testRecord(models.LevelWarn, &msg)))

	var got string
	require.NoError(t, db.DB().QueryRow(
		"SELECT message FROM records_short_last_session_warn").Scan(&got))
	assert.Equal(t, "view me", got)
}

func TestInMemoryStore(t *testing.T) {
	cfg := &config.StoreConfig{
		Enabled: true,
		Level:   "trace",
		Path:    config.InMemoryPath,
	}
	db, err := New(arbor.NewLogger(), cfg, config.DefaultViews())
	require.NoError(t, err)
	defer db.Close()

	storage := NewRecordStorage(db, arbor.NewLogger())
	require.NoError(t, storage.Append(context.Background(), "ses_a", testRecord(models.LevelInfo, nil)))

	count, err := storage.CountBySession(context.Background(), "ses_a")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestOpenReadOnly(t *testing.T) {
	db, dbPath, cleanup := setupTestDB(t)
	defer cleanup()

	storage := NewRecordStorage(db, arbor.NewLogger())
	msg := "persisted"
	require.NoError(t, storage.Append(context.Background(), "ses_a", testRecord(models.LevelInfo, &msg)))

	ro, err := OpenReadOnly(dbPath)
	require.NoError(t, err)
	defer ro.Close()

	var buf bytes.Buffer
	require.NoError(t, WriteRows(context.Background(), &buf, ro))
	assert.Contains(t, buf.String(), "persisted")

	// The handle really is read-only.
	_, err = ro.Exec("INSERT INTO log_records (session_id) VALUES ('ses_x')")
	require.Error(t, err)

	// The in-memory marker has no file to reopen.
	_, err = OpenReadOnly(config.InMemoryPath)
	require.Error(t, err)
}
