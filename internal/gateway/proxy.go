package gateway

import (
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/tickethub/pkg/middleware"
)

// hopByHopHeaders は接続ごとのヘッダー。プロキシでは転送しない。
var hopByHopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// handleProxy は固定パスにリクエストを転送するハンドラを返す。
// クライアントのパスは破棄し、クエリ文字列だけを引き継ぐ。
func (s *Server) handleProxy(baseURL, path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.doProxy(c, baseURL+path+rawQuery(c))
	}
}

// handleProxyStripPrefix はパスからprefixを取り除いて転送するハンドラを返す。
// /api/tickets/1 は prefix "/api" で /tickets/1 になる。
func (s *Server) handleProxyStripPrefix(baseURL, prefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := strings.TrimPrefix(c.Request.URL.EscapedPath(), prefix)
		s.doProxy(c, baseURL+path+rawQuery(c))
	}
}

// rawQuery はクエリ文字列を "?" 付きで返す。クエリが無い場合は空文字列を返す。
func rawQuery(c *gin.Context) string {
	if c.Request.URL.RawQuery == "" {
		return ""
	}
	return "?" + c.Request.URL.RawQuery
}

// doProxy はリクエストを内部サービスに転送し、レスポンスをそのまま返す共通処理。
// クライアントが送った識別ヘッダーは必ず取り除き、認証済みの場合だけGatewayが設定し直す。
func (s *Server) doProxy(c *gin.Context, url string) {
	body := c.Request.Body
	if c.Request.ContentLength == 0 {
		body = http.NoBody
	}
	req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, url, body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "プロキシリクエストの作成に失敗しました"})
		log.Printf("[Gateway] プロキシリクエスト作成エラー: url=%s, error=%v", url, err)
		return
	}
	req.ContentLength = c.Request.ContentLength

	copyHeaders(req.Header, c.Request.Header)
	middleware.StripIdentityHeaders(req.Header)
	if claims, ok := middleware.GetClaims(c); ok {
		middleware.SetIdentityHeaders(req.Header, claims)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "内部サービスとの通信に失敗しました"})
		log.Printf("[Gateway] プロキシエラー: url=%s, error=%v", url, err)
		return
	}
	defer resp.Body.Close()

	copyHeaders(c.Writer.Header(), resp.Header)
	c.Status(resp.StatusCode)
	if _, err := io.Copy(c.Writer, resp.Body); err != nil {
		log.Printf("[Gateway] レスポンス転送エラー: url=%s, error=%v", url, err)
	}
}

// copyHeaders はhop-by-hopヘッダーを除いてsrcのヘッダーをdstにコピーする。
// Connectionヘッダーで列挙されたヘッダーも除外する。
func copyHeaders(dst, src http.Header) {
	skip := make(map[string]bool, len(hopByHopHeaders))
	for _, h := range hopByHopHeaders {
		skip[h] = true
	}
	for _, v := range src.Values("Connection") {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				skip[http.CanonicalHeaderKey(name)] = true
			}
		}
	}

	for key, values := range src {
		if skip[http.CanonicalHeaderKey(key)] {
			continue
		}
		dst.Del(key)
		for _, v := range values {
			dst.Add(key, v)
		}
	}
}
