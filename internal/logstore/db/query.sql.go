package logstoredb

import (
	"context"
	"time"
)

const insertLog = `-- name: InsertLog :exec
INSERT INTO system_logs (timestamp, level, service, message, context)
VALUES ($1, $2, $3, $4, $5)
`

// InsertLogParams はInsertLogの引数。
type InsertLogParams struct {
	Timestamp time.Time
	Level     string
	Service   string
	Message   string
	Context   string
}

// InsertLog はログレコードを1件追加する。
func (q *Queries) InsertLog(ctx context.Context, arg InsertLogParams) error {
	_, err := q.db.ExecContext(ctx, insertLog,
		arg.Timestamp,
		arg.Level,
		arg.Service,
		arg.Message,
		arg.Context,
	)
	return err
}

const listLogs = `-- name: ListLogs :many
SELECT id, timestamp, level, service, message, context
FROM system_logs
ORDER BY timestamp DESC, id DESC
LIMIT $1 OFFSET $2
`

// ListLogsParams はListLogsの引数。
type ListLogsParams struct {
	Limit  int64
	Offset int64
}

// ListLogs はログレコードを新しい順に取得する。
func (q *Queries) ListLogs(ctx context.Context, arg ListLogsParams) ([]SystemLog, error) {
	rows, err := q.db.QueryContext(ctx, listLogs, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []SystemLog
	for rows.Next() {
		var i SystemLog
		if err := rows.Scan(
			&i.ID,
			&i.Timestamp,
			&i.Level,
			&i.Service,
			&i.Message,
			&i.Context,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
