package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

// newCORSRouter はCORSミドルウェアを適用したテスト用ルーターを生成する。
// handlerCalledはハンドラーが実行されたときにtrueになる。
func newCORSRouter(origins []string, handlerCalled *bool) *gin.Engine {
	router := gin.New()
	router.Use(CORS(origins))
	handler := func(c *gin.Context) {
		*handlerCalled = true
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/api/tickets", handler)
	router.OPTIONS("/api/tickets", handler)
	return router
}

// TestCORS はCORSミドルウェアを検証する。
func TestCORS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		origins     []string
		method      string
		origin      string
		wantCode    int
		wantAllow   string
		wantHandler bool
	}{
		{
			name:        "許可されたオリジンにCORSヘッダーが設定されること",
			origins:     []string{"http://localhost:3000", "https://example.com"},
			method:      http.MethodGet,
			origin:      "https://example.com",
			wantCode:    http.StatusOK,
			wantAllow:   "https://example.com",
			wantHandler: true,
		},
		{
			name:        "ワイルドカードではすべてのオリジンが許可されること",
			origins:     []string{"*"},
			method:      http.MethodGet,
			origin:      "https://any.example",
			wantCode:    http.StatusOK,
			wantAllow:   "https://any.example",
			wantHandler: true,
		},
		{
			name:        "許可されていないオリジンにはCORSヘッダーが設定されないこと",
			origins:     []string{"http://localhost:3000"},
			method:      http.MethodGet,
			origin:      "https://evil.com",
			wantCode:    http.StatusOK,
			wantAllow:   "",
			wantHandler: true,
		},
		{
			name:        "Originヘッダーが無い場合はワイルドカードでも設定されないこと",
			origins:     []string{"*"},
			method:      http.MethodGet,
			origin:      "",
			wantCode:    http.StatusOK,
			wantAllow:   "",
			wantHandler: true,
		},
		{
			name:        "OPTIONSリクエストは204で中断されること",
			origins:     []string{"http://localhost:3000"},
			method:      http.MethodOptions,
			origin:      "http://localhost:3000",
			wantCode:    http.StatusNoContent,
			wantAllow:   "http://localhost:3000",
			wantHandler: false,
		},
		{
			name:        "空のオリジンリストではCORSヘッダーが設定されないこと",
			origins:     nil,
			method:      http.MethodGet,
			origin:      "http://localhost:3000",
			wantCode:    http.StatusOK,
			wantAllow:   "",
			wantHandler: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handlerCalled := false
			router := newCORSRouter(tt.origins, &handlerCalled)

			req := httptest.NewRequest(tt.method, "/api/tickets", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Errorf("ステータスコード = %d, want %d", w.Code, tt.wantCode)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantAllow)
			}
			if handlerCalled != tt.wantHandler {
				t.Errorf("handlerCalled = %v, want %v", handlerCalled, tt.wantHandler)
			}
			if tt.wantAllow != "" {
				if got := w.Header().Get("Access-Control-Allow-Headers"); got != "Authorization, Content-Type, X-Request-ID" {
					t.Errorf("Access-Control-Allow-Headers = %q", got)
				}
			}
		})
	}
}
