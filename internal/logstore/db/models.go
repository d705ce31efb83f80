package logstoredb

import "time"

// SystemLog はsystem_logsテーブルの1行。
type SystemLog struct {
	ID        int64
	Timestamp time.Time
	Level     string
	Service   string
	Message   string
	// Context はJSON文字列。PostgreSQLではJSONB、SQLiteではTEXTとして保存される。
	Context []byte
}
