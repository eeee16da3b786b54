package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scribo/pkg/config"
	"github.com/ternarybob/scribo/pkg/models"
)

// RecordStorage handles log record persistence. The table is append-only:
// there is no update or delete path, only INSERT and read-side views.
type RecordStorage struct {
	db     *DB
	logger arbor.ILogger
}

// NewRecordStorage creates a new record storage over an open store.
func NewRecordStorage(db *DB, logger arbor.ILogger) *RecordStorage {
	return &RecordStorage{
		db:     db,
		logger: logger,
	}
}

// Append inserts exactly one row for the record under the given session id.
// Autocommit applies: the insert is its own atomic unit, so no transaction
// is ever left open between records.
func (s *RecordStorage) Append(ctx context.Context, sessionID string, rec models.Record) error {
	query := `
		INSERT INTO log_records (session_id, unix_time, level, caller_file, caller_line,
			caller_func, process_name, process_id, thread_name, thread_id, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var message sql.NullString
	if rec.Message != nil {
		message = sql.NullString{String: *rec.Message, Valid: true}
	}

	_, err := s.db.db.ExecContext(ctx, query,
		sessionID,
		formatTimestamp(rec),
		rec.Level.String(),
		rec.CallerFile,
		strconv.Itoa(rec.CallerLine),
		rec.CallerFunc,
		rec.ProcessName,
		strconv.Itoa(rec.ProcessID),
		rec.ThreadName,
		strconv.FormatInt(rec.ThreadID, 10),
		message,
	)

	if err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}

	return nil
}

// CountBySession returns the number of rows written under one session id.
func (s *RecordStorage) CountBySession(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := s.db.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM log_records WHERE session_id = ?", sessionID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count session records: %w", err)
	}
	return count, nil
}

// formatTimestamp renders the record time as unix seconds with sub-second
// precision, stored as text.
func formatTimestamp(rec models.Record) string {
	t := rec.Timestamp
	return fmt.Sprintf("%d.%06d", t.Unix(), t.Nanosecond()/1000)
}

// OpenReadOnly opens a separate read-only connection to an on-disk store.
// Dumps use this so they can never write, regardless of what they query.
func OpenReadOnly(path string) (*sql.DB, error) {
	if path == config.InMemoryPath {
		return nil, fmt.Errorf("in-memory store has no file to reopen")
	}

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database read-only: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// WriteRows prints every row of log_records to w, one pipe-delimited line
// per row. It works on any connection, live or read-only.
func WriteRows(ctx context.Context, w io.Writer, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, "SELECT * FROM log_records")
	if err != nil {
		return fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("failed to read columns: %w", err)
	}

	values := make([]sql.NullString, len(cols))
	scan := make([]any, len(cols))
	for i := range values {
		scan[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			return fmt.Errorf("failed to scan record row: %w", err)
		}

		var b strings.Builder
		for _, v := range values {
			b.WriteByte('|')
			if v.Valid {
				b.WriteString(v.String)
			}
		}
		if _, err := fmt.Fprintln(w, b.String()); err != nil {
			return err
		}
	}

	return rows.Err()
}
