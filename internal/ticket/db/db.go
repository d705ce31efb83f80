// Package ticketdb はチケットサービスのticketsテーブルに対するクエリを提供する。
// 取得・更新・削除はすべて (id, user_id) の組で絞り込み、所有者以外の行には触れない。
package ticketdb

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

// Queries はticketsテーブルに対するクエリ実行オブジェクト。
type Queries struct {
	db DBTX
}
