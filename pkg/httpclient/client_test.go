package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// testRequest はテストサーバーが受け取ったリクエスト情報を保持する構造体。
type testRequest struct {
	// Method はHTTPメソッド。
	Method string
	// Path はリクエストパス。
	Path string
	// Body はリクエストボディ。
	Body []byte
	// Headers はリクエストヘッダー。
	Headers http.Header
}

// testPayload はテスト用のリクエスト/レスポンスペイロード。
type testPayload struct {
	// Name はテスト用の名前フィールド。
	Name string `json:"name"`
	// Value はテスト用の値フィールド。
	Value int `json:"value"`
}

// newRecordingServer は受け取ったリクエストを記録し、固定のレスポンスを返すテストサーバーを生成する。
func newRecordingServer(t *testing.T, status int, response string) (*httptest.Server, *testRequest) {
	t.Helper()

	received := &testRequest{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received.Method = r.Method
		received.Path = r.URL.Path
		received.Body, _ = io.ReadAll(r.Body)
		received.Headers = r.Header.Clone()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, response)
	}))
	t.Cleanup(ts.Close)
	return ts, received
}

// TestNew はNew関数でクライアントが正しく生成されることを検証する。
func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("クライアントが正常に生成されること", func(t *testing.T) {
		t.Parallel()

		client := New("http://localhost:3003")
		if client.baseURL != "http://localhost:3003" {
			t.Errorf("baseURL = %q, want %q", client.baseURL, "http://localhost:3003")
		}
		if client.httpClient == nil {
			t.Fatal("httpClientがnil")
		}
	})

	t.Run("タイムアウトが上書きされていないこと", func(t *testing.T) {
		t.Parallel()

		client := New("http://localhost:3003")
		if client.httpClient.Timeout != 0 {
			t.Errorf("Timeout = %v, want 0", client.httpClient.Timeout)
		}
	})
}

// TestPostJSON はPostJSON関数を検証する。
func TestPostJSON(t *testing.T) {
	t.Parallel()

	t.Run("正常にPOSTリクエストを送信してレスポンスを取得できること", func(t *testing.T) {
		t.Parallel()

		ts, received := newRecordingServer(t, http.StatusCreated, `{"name":"response","value":201}`)
		client := New(ts.URL)

		var result testPayload
		err := client.PostJSON(context.Background(), "/log", testPayload{Name: "request", Value: 1}, &result)
		if err != nil {
			t.Fatalf("PostJSON()でエラーが発生: %v", err)
		}

		if received.Method != http.MethodPost {
			t.Errorf("Method = %q, want %q", received.Method, http.MethodPost)
		}
		if received.Path != "/log" {
			t.Errorf("Path = %q, want %q", received.Path, "/log")
		}
		if got := received.Headers.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q, want %q", got, "application/json")
		}

		var sent testPayload
		if err := json.Unmarshal(received.Body, &sent); err != nil {
			t.Fatalf("送信ボディのデシリアライズに失敗: %v", err)
		}
		if sent.Name != "request" || sent.Value != 1 {
			t.Errorf("送信ボディ = %+v", sent)
		}
		if result.Name != "response" || result.Value != 201 {
			t.Errorf("レスポンス = %+v", result)
		}
	})

	t.Run("サーバーが400エラーを返した場合にStatusErrorが返ること", func(t *testing.T) {
		t.Parallel()

		ts, _ := newRecordingServer(t, http.StatusBadRequest, `{"error":"bad"}`)
		client := New(ts.URL)

		err := client.PostJSON(context.Background(), "/log", testPayload{}, nil)
		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("err = %v, want *StatusError", err)
		}
		if statusErr.StatusCode != http.StatusBadRequest {
			t.Errorf("StatusCode = %d, want %d", statusErr.StatusCode, http.StatusBadRequest)
		}
		if statusErr.Body != `{"error":"bad"}` {
			t.Errorf("Body = %q", statusErr.Body)
		}
	})

	t.Run("resultがnilの場合でもエラーにならないこと", func(t *testing.T) {
		t.Parallel()

		ts, _ := newRecordingServer(t, http.StatusCreated, `{"status":"ok"}`)
		client := New(ts.URL)

		if err := client.PostJSON(context.Background(), "/log", testPayload{}, nil); err != nil {
			t.Errorf("PostJSON()でエラーが発生: %v", err)
		}
	})

	t.Run("キャンセルされたコンテキストでエラーが返ること", func(t *testing.T) {
		t.Parallel()

		ts, _ := newRecordingServer(t, http.StatusCreated, `{}`)
		client := New(ts.URL)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := client.PostJSON(ctx, "/log", testPayload{}, nil); err == nil {
			t.Error("キャンセル済みコンテキストでエラーが返らなかった")
		}
	})

	t.Run("シリアライズできないボディでエラーが返ること", func(t *testing.T) {
		t.Parallel()

		client := New("http://localhost:0")
		if err := client.PostJSON(context.Background(), "/log", make(chan int), nil); err == nil {
			t.Error("チャネルをボディに指定してエラーが返らなかった")
		}
	})
}

// TestWithRequestID はWithRequestID関数を検証する。
func TestWithRequestID(t *testing.T) {
	t.Parallel()

	t.Run("コンテキストのリクエストIDがヘッダーで伝播されること", func(t *testing.T) {
		t.Parallel()

		ts, received := newRecordingServer(t, http.StatusCreated, `{}`)
		client := New(ts.URL)

		ctx := WithRequestID(context.Background(), "req-123")
		if err := client.PostJSON(ctx, "/log", testPayload{}, nil); err != nil {
			t.Fatalf("PostJSON()でエラーが発生: %v", err)
		}
		if got := received.Headers.Get(HeaderRequestID); got != "req-123" {
			t.Errorf("%s = %q, want %q", HeaderRequestID, got, "req-123")
		}
	})

	t.Run("リクエストIDが無い場合はヘッダーを設定しないこと", func(t *testing.T) {
		t.Parallel()

		ts, received := newRecordingServer(t, http.StatusCreated, `{}`)
		client := New(ts.URL)

		if err := client.PostJSON(WithRequestID(context.Background(), ""), "/log", testPayload{}, nil); err != nil {
			t.Fatalf("PostJSON()でエラーが発生: %v", err)
		}
		if len(received.Headers.Values(HeaderRequestID)) != 0 {
			t.Errorf("%s ヘッダーが設定されている", HeaderRequestID)
		}
	})

	t.Run("RequestIDFromで取り出せること", func(t *testing.T) {
		t.Parallel()

		if _, ok := RequestIDFrom(context.Background()); ok {
			t.Error("未設定のコンテキストでokがtrue")
		}
		got, ok := RequestIDFrom(WithRequestID(context.Background(), "abc"))
		if !ok || got != "abc" {
			t.Errorf("RequestIDFrom() = %q, %v", got, ok)
		}
	})
}
