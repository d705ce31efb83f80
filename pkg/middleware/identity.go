package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/tickethub/pkg/lenient"
)

// Gatewayが内部サービスに伝播する識別ヘッダー。
// これらはGatewayだけが設定してよい。内部サービスは値を無条件に信頼するため、
// 内部サービスをクライアントから直接到達できる場所に公開してはならない。
const (
	// HeaderUserID は認証済みユーザーのIDを伝播するHTTPヘッダーキー。
	HeaderUserID = "X-User-Id"
	// HeaderUserEmail は認証済みユーザーのメールアドレスを伝播するHTTPヘッダーキー。
	HeaderUserEmail = "X-User-Email"
)

// contextKeyUserID はユーザーIDをGinコンテキストに格納するキー。
const contextKeyUserID = "user_id"

// SetIdentityHeaders は検証済みクレームから識別ヘッダーを設定する。
func SetIdentityHeaders(h http.Header, claims *JWTClaims) {
	h.Set(HeaderUserID, strconv.FormatInt(claims.UserID, 10))
	h.Set(HeaderUserEmail, claims.Email)
}

// StripIdentityHeaders はクライアントが送った識別ヘッダーを取り除く。
func StripIdentityHeaders(h http.Header) {
	h.Del(HeaderUserID)
	h.Del(HeaderUserEmail)
}

// TrustedIdentity はGatewayが設定したユーザーIDヘッダーを読み取るGinミドルウェアを返す。
// ヘッダーが無い場合はonMissingを呼んだ後に401で中断する。
// 値は先頭の整数部分だけを読む。数値でない値はすべて同じユーザーID 0として扱う。
func TrustedIdentity(onMissing func(c *gin.Context)) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderUserID)
		if raw == "" {
			if onMissing != nil {
				onMissing(c)
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "認証されていません。x-user-idヘッダーが必要です",
			})
			return
		}

		userID, _ := lenient.ParseInt(raw)
		c.Set(contextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID はGinコンテキストからユーザーIDを取得する。
// TrustedIdentityミドルウェアが事前に適用されている必要がある。
func GetUserID(c *gin.Context) int64 {
	userID, _ := c.Get(contextKeyUserID)
	if id, ok := userID.(int64); ok {
		return id
	}
	return 0
}
