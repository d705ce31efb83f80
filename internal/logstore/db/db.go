// Package logstoredb はログサービスのsystem_logsテーブルに対するクエリを提供する。
// クエリはPostgreSQLとSQLiteの両方で動作する $N プレースホルダで記述する。
package logstoredb

import (
	"context"
	"database/sql"
)

// DBTX は *sql.DB と *sql.Tx の共通インターフェース。
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// New はクエリ実行オブジェクトを生成する。
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Queries はsystem_logsテーブルに対するクエリ実行オブジェクト。
type Queries struct {
	db DBTX
}
