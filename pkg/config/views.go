package config

// DefaultViews is the stock view set installed at sink startup. Views are
// the intended way to read the log: the table keeps every accepted record,
// and each view is a saved way of looking at it. Declaring a view costs
// nothing at write time, so views accumulated during development can stay.
func DefaultViews() []ViewDefinition {
	return []ViewDefinition{
		// Half verbose: everything except process/thread ids.
		{
			Name: "records_medium",
			Query: `SELECT mid, level, session_id, unix_time, SUBSTR(caller_file, -20) AS file_tail,
caller_line, caller_func, process_name, thread_name, message
FROM log_records`,
		},

		// The most useful columns only.
		{
			Name: "records_short",
			Query: `SELECT mid, level, SUBSTR(caller_file, -20) AS file_tail, caller_line, caller_func, message
FROM log_records`,
		},

		// Short form, most recent session only.
		{
			Name: "records_short_last_session",
			Query: `SELECT mid, level, SUBSTR(caller_file, -20) AS file_tail, caller_line, caller_func, message
FROM log_records
WHERE session_id IN (SELECT session_id FROM log_records ORDER BY mid DESC LIMIT 1)`,
		},

		// Short form, most recent session, warn level or higher.
		{
			Name: "records_short_last_session_warn",
			Query: `SELECT mid, level, SUBSTR(caller_file, -20) AS file_tail, caller_line, caller_func, message
FROM log_records
WHERE session_id IN (SELECT session_id FROM log_records ORDER BY mid DESC LIMIT 1)
AND level NOT IN ('TRACE', 'INFO')`,
		},

		// Record counts per thread and process identity.
		{
			Name:  "stats_thread_name",
			Query: `SELECT thread_name, COUNT(thread_name) AS records FROM log_records GROUP BY thread_name`,
		},
		{
			Name:  "stats_thread_id",
			Query: `SELECT thread_id, COUNT(thread_id) AS records FROM log_records GROUP BY thread_id`,
		},
		{
			Name:  "stats_process_name",
			Query: `SELECT process_name, COUNT(process_name) AS records FROM log_records GROUP BY process_name`,
		},
		{
			Name:  "stats_process_id",
			Query: `SELECT process_id, COUNT(process_id) AS records FROM log_records GROUP BY process_id`,
		},
	}
}
