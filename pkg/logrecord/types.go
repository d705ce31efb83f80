package logrecord

import (
	"encoding/json"
	"time"
)

// Level はログレコードの重要度を表す。
// ログサービスはこの列挙以外の値も受け付ける。
type Level string

const (
	// LevelInfo は通常の操作記録を表す。
	LevelInfo Level = "info"
	// LevelWarn は不正アクセスの試行など注意が必要な事象を表す。
	LevelWarn Level = "warn"
	// LevelError は処理の失敗を表す。
	LevelError Level = "error"
)

// ServiceCRUD はチケットサービスがログに記録するサービス名。
const ServiceCRUD = "crud-service"

// Entry はログサービスの取り込みエンドポイントに送信するリクエストボディ。
type Entry struct {
	// Timestamp は事象の発生日時（RFC 3339）。
	Timestamp string `json:"timestamp"`
	// Level は重要度。
	Level Level `json:"level"`
	// Service は送信元のサービス名。検証されない。
	Service string `json:"service"`
	// Message は人間向けのメッセージ。
	Message string `json:"message"`
	// Context は任意の構造化データ。
	Context json.RawMessage `json:"context,omitempty"`
}

// Record はログサービスに永続化されたログレコード。
type Record struct {
	// ID はレコードの連番。
	ID int64 `json:"id"`
	// Timestamp は事象の発生日時。
	Timestamp time.Time `json:"timestamp"`
	// Level は重要度。
	Level Level `json:"level"`
	// Service は送信元のサービス名。
	Service string `json:"service"`
	// Message は人間向けのメッセージ。
	Message string `json:"message"`
	// Context は任意の構造化データ。未指定の場合は {}。
	Context json.RawMessage `json:"context"`
}

// TicketContext はチケット操作のログに付与するコンテキスト。
type TicketContext struct {
	// TicketID は対象チケットのID。作成失敗時は0。
	TicketID int64 `json:"ticketId,omitempty"`
	// UserID は操作したユーザーのID。
	UserID int64 `json:"userId"`
	// Error は失敗時のエラーメッセージ。
	Error string `json:"error,omitempty"`
	// RequestID はGatewayが付与したリクエストID。
	RequestID string `json:"requestId,omitempty"`
}

// UnauthorizedContext は認証ヘッダーの無いアクセスのログに付与するコンテキスト。
type UnauthorizedContext struct {
	// IP はアクセス元のIPアドレス。
	IP string `json:"ip"`
}
