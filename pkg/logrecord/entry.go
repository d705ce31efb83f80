package logrecord

import (
	"encoding/json"
	"fmt"
	"time"
)

// emptyContext はコンテキスト未指定時の既定値。
var emptyContext = json.RawMessage(`{}`)

// NewEntry は現在時刻のログエントリを生成する。
// contextにはコンテキスト用の構造体を渡す。nilの場合は {} になる。
func NewEntry(service string, level Level, message string, context any) (*Entry, error) {
	raw := emptyContext
	if context != nil {
		data, err := json.Marshal(context)
		if err != nil {
			return nil, fmt.Errorf("ログコンテキストのシリアライズに失敗: %w", err)
		}
		raw = data
	}

	return &Entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level,
		Service:   service,
		Message:   message,
		Context:   raw,
	}, nil
}

// NormalizeContext は未指定やnullのコンテキストを {} に置き換える。
func NormalizeContext(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || string(raw) == "null" {
		return emptyContext
	}
	return raw
}
