package sqlite

// SQLite natively stores TEXT, INTEGER, REAL, BLOB and NULL. Every record
// field is kept as TEXT except mid, the store-assigned record id; values are
// opaque to the store and views do the interpretation.
//
// mid:          record id, monotonically increasing, assigned by SQLite.
// session_id:   generated once per sink startup; the unit for
//               "last session" / "compare sessions" views.
// unix_time:    wall-clock timestamp with sub-second precision, as text.
// level:        canonical level string (TRACE, INFO, WARN, ERROR, CRIT).
// caller_*:     call-site provenance captured by the record factory.
// message:      the log message; NULL when the producer passed none.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS log_records (
	mid          INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id   TEXT,
	unix_time    TEXT,
	level        TEXT,
	caller_file  TEXT,
	caller_line  TEXT,
	caller_func  TEXT,
	process_name TEXT,
	process_id   TEXT,
	thread_name  TEXT,
	thread_id    TEXT,
	message      TEXT
);
`
