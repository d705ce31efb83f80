package logstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	logstoredb "github.com/nao1215/tickethub/internal/logstore/db"
	"github.com/nao1215/tickethub/pkg/config"
	"github.com/nao1215/tickethub/pkg/database"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupTestServer はテスト用のログサーバーをインメモリSQLiteで構築する。
func setupTestServer(t *testing.T) *Server {
	t.Helper()

	db, err := database.Open(t.Context(), "sqlite::memory:")
	if err != nil {
		t.Fatalf("インメモリDBの作成に失敗: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s, err := NewServer(t.Context(), &config.Config{Service: config.ServiceLogStore, Port: "0"}, db)
	if err != nil {
		t.Fatalf("サーバーの生成に失敗: %v", err)
	}
	return s
}

// insertTestLog はテスト用にログレコードをDBに直接挿入するヘルパー関数。
func insertTestLog(t *testing.T, s *Server, timestamp time.Time, message string) {
	t.Helper()
	err := s.queries.InsertLog(t.Context(), logstoredb.InsertLogParams{
		Timestamp: timestamp.UTC(),
		Level:     "info",
		Service:   "test-service",
		Message:   message,
		Context:   "{}",
	})
	if err != nil {
		t.Fatalf("テスト用ログの挿入に失敗: %v", err)
	}
}

// doRequest はテスト用のHTTPリクエストを実行し、レスポンスを返すヘルパー関数。
// bodyが文字列の場合はそのまま送信する。
func doRequest(s *Server, method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Reader
	switch b := body.(type) {
	case nil:
		reqBody = bytes.NewReader(nil)
	case string:
		reqBody = bytes.NewReader([]byte(b))
	default:
		jsonBytes, _ := json.Marshal(b)
		reqBody = bytes.NewReader(jsonBytes)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// parseJSONArray はレスポンスボディをスライスにデコードするヘルパー関数。
func parseJSONArray(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var result []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("JSON配列のデコードに失敗: %v, body=%s", err, w.Body.String())
	}
	return result
}

// countLogs は保存されているログの件数を返すヘルパー関数。
func countLogs(t *testing.T, s *Server) int64 {
	t.Helper()
	var n int64
	if err := s.db.QueryRowContext(t.Context(), "SELECT COUNT(*) FROM system_logs").Scan(&n); err != nil {
		t.Fatalf("ログ件数の取得に失敗: %v", err)
	}
	return n
}

// TestHandleIngest はログ取り込みハンドラを検証する。
func TestHandleIngest(t *testing.T) {
	t.Parallel()

	t.Run("ログを保存して201を返すこと", func(t *testing.T) {
		t.Parallel()
		s := setupTestServer(t)

		w := doRequest(s, http.MethodPost, "/log", map[string]any{
			"timestamp": "2026-10-15T10:00:00.000Z",
			"level":     "info",
			"service":   "crud-service",
			"message":   "Ticket created",
			"context":   map[string]any{"ticketId": 1, "userId": 7},
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("ステータスコード = %d, want %d, body=%s", w.Code, http.StatusCreated, w.Body.String())
		}

		logs := parseJSONArray(t, doRequest(s, http.MethodGet, "/logs", nil))
		if len(logs) != 1 {
			t.Fatalf("ログ件数 = %d, want 1", len(logs))
		}
		got := logs[0]
		if got["level"] != "info" || got["service"] != "crud-service" || got["message"] != "Ticket created" {
			t.Errorf("ログ = %v", got)
		}
		ctx, ok := got["context"].(map[string]any)
		if !ok || ctx["ticketId"] != float64(1) || ctx["userId"] != float64(7) {
			t.Errorf("context = %v", got["context"])
		}
		if got["timestamp"] != "2026-10-15T10:00:00Z" {
			t.Errorf("timestamp = %v", got["timestamp"])
		}
	})

	t.Run("contextが無い場合は空オブジェクトになること", func(t *testing.T) {
		t.Parallel()
		s := setupTestServer(t)

		w := doRequest(s, http.MethodPost, "/log", map[string]any{
			"timestamp": "2026-10-15T10:00:00Z",
			"level":     "warn",
			"service":   "gateway",
			"message":   "no context",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusCreated)
		}

		logs := parseJSONArray(t, doRequest(s, http.MethodGet, "/logs", nil))
		ctx, ok := logs[0]["context"].(map[string]any)
		if !ok || len(ctx) != 0 {
			t.Errorf("context = %v, want {}", logs[0]["context"])
		}
	})

	t.Run("levelは検証しないこと", func(t *testing.T) {
		t.Parallel()
		s := setupTestServer(t)

		w := doRequest(s, http.MethodPost, "/log", map[string]any{
			"timestamp": "2026-10-15T10:00:00+09:00",
			"level":     "debug",
			"service":   "anything",
			"message":   "m",
		})
		if w.Code != http.StatusCreated {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusCreated)
		}
	})

	invalid := []struct {
		name string
		body any
	}{
		{name: "timestampが無い", body: map[string]any{"level": "info", "service": "s", "message": "m"}},
		{name: "levelが無い", body: map[string]any{"timestamp": "2026-10-15T10:00:00Z", "service": "s", "message": "m"}},
		{name: "serviceが無い", body: map[string]any{"timestamp": "2026-10-15T10:00:00Z", "level": "info", "message": "m"}},
		{name: "messageが空", body: map[string]any{"timestamp": "2026-10-15T10:00:00Z", "level": "info", "service": "s", "message": ""}},
		{name: "timestampの形式が不正", body: map[string]any{"timestamp": "yesterday", "level": "info", "service": "s", "message": "m"}},
		{name: "JSONが不正", body: "{not json"},
	}
	for _, tt := range invalid {
		t.Run(tt.name+"場合は400を返し保存しないこと", func(t *testing.T) {
			t.Parallel()
			s := setupTestServer(t)

			w := doRequest(s, http.MethodPost, "/log", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusBadRequest)
			}
			if n := countLogs(t, s); n != 0 {
				t.Errorf("ログ件数 = %d, want 0", n)
			}
		})
	}
}

// TestHandleList はログ取得ハンドラを検証する。
func TestHandleList(t *testing.T) {
	t.Parallel()

	t.Run("ログが無い場合は空配列を返すこと", func(t *testing.T) {
		t.Parallel()
		s := setupTestServer(t)

		w := doRequest(s, http.MethodGet, "/logs", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
		if w.Body.String() != "[]" {
			t.Errorf("body = %s, want []", w.Body.String())
		}
	})

	t.Run("timestampの新しい順に返すこと", func(t *testing.T) {
		t.Parallel()
		s := setupTestServer(t)

		base := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
		insertTestLog(t, s, base.Add(1*time.Minute), "second")
		insertTestLog(t, s, base.Add(2*time.Minute), "third")
		insertTestLog(t, s, base, "first")

		logs := parseJSONArray(t, doRequest(s, http.MethodGet, "/logs", nil))
		want := []string{"third", "second", "first"}
		if len(logs) != len(want) {
			t.Fatalf("ログ件数 = %d, want %d", len(logs), len(want))
		}
		for i, w := range want {
			if logs[i]["message"] != w {
				t.Errorf("logs[%d].message = %v, want %s", i, logs[i]["message"], w)
			}
		}
	})

	t.Run("既定では50件まで返すこと", func(t *testing.T) {
		t.Parallel()
		s := setupTestServer(t)

		base := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
		for i := range 60 {
			insertTestLog(t, s, base.Add(time.Duration(i)*time.Second), fmt.Sprintf("log-%d", i))
		}

		logs := parseJSONArray(t, doRequest(s, http.MethodGet, "/logs", nil))
		if len(logs) != 50 {
			t.Errorf("ログ件数 = %d, want 50", len(logs))
		}
		if logs[0]["message"] != "log-59" {
			t.Errorf("先頭 = %v, want log-59", logs[0]["message"])
		}
	})

	pagination := []struct {
		name      string
		query     string
		wantFirst string
		wantCount int
	}{
		{name: "limitとoffsetを指定した場合", query: "?limit=2&offset=1", wantFirst: "log-3", wantCount: 2},
		{name: "limitが数値でない場合は既定値になること", query: "?limit=abc", wantFirst: "log-4", wantCount: 5},
		{name: "limitが0の場合は既定値になること", query: "?limit=0", wantFirst: "log-4", wantCount: 5},
		{name: "先頭の整数部分だけを読むこと", query: "?limit=3xyz&offset=1.9", wantFirst: "log-3", wantCount: 3},
		{name: "offsetが件数を超える場合は空になること", query: "?offset=10", wantCount: 0},
	}
	for _, tt := range pagination {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := setupTestServer(t)

			base := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
			for i := range 5 {
				insertTestLog(t, s, base.Add(time.Duration(i)*time.Second), fmt.Sprintf("log-%d", i))
			}

			w := doRequest(s, http.MethodGet, "/logs"+tt.query, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
			}
			logs := parseJSONArray(t, w)
			if len(logs) != tt.wantCount {
				t.Fatalf("ログ件数 = %d, want %d", len(logs), tt.wantCount)
			}
			if tt.wantCount > 0 && logs[0]["message"] != tt.wantFirst {
				t.Errorf("先頭 = %v, want %s", logs[0]["message"], tt.wantFirst)
			}
		})
	}
}

// TestHealth はヘルスチェックエンドポイントを検証する。
func TestHealth(t *testing.T) {
	t.Parallel()
	s := setupTestServer(t)

	w := doRequest(s, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
	}
}
