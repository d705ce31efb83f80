package middleware

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL はIDトークンの有効期間。
const TokenTTL = time.Hour

// contextKeyClaims は検証済みクレームをGinコンテキストに格納するキー。
const contextKeyClaims = "claims"

// ErrInvalidToken はトークンの署名・形式・有効期限のいずれかが不正であることを表す。
var ErrInvalidToken = errors.New("トークンが無効です")

// JWTClaims はIDトークンのクレーム（ペイロード）を表す。
// Gatewayが検証し、ヘッダー経由で内部サービスに伝播する。
type JWTClaims struct {
	// UserID は認証済みユーザーの一意識別子。
	UserID int64 `json:"userId"`
	// Email はユーザーのメールアドレス。
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateJWT はユーザー情報から有効期間1時間のJWTトークンを生成する。
// 認証サービスがログイン成功時に呼び出す。
func GenerateJWT(secret string, userID int64, email string) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("JWTトークンの署名に失敗: %w", err)
	}
	return signed, nil
}

// ParseJWT はトークンの署名と有効期限を検証し、クレームを返す。
// HS256以外のアルゴリズムで署名されたトークンは拒否する。
func ParseJWT(secret, tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// JWTAuth はBearerトークンを検証するGinミドルウェアを返す。
// トークンが無い場合は401、署名不正や期限切れの場合は403で中断する。
// 検証に成功した場合、コンテキストにクレームを設定する。
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "アクセスが拒否されました。トークンがありません",
			})
			return
		}

		claims, err := ParseJWT(secret, tokenString)
		if err != nil {
			log.Printf("[Auth] 不正なトークン: %v", err)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "トークンが無効です",
			})
			return
		}

		c.Set(contextKeyClaims, claims)
		c.Next()
	}
}

// bearerToken はAuthorizationヘッダーの2番目の要素をトークンとして取り出す。
// "Bearer <token>" 以外のスキーム名も区別しない。
func bearerToken(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// GetClaims はGinコンテキストから検証済みクレームを取得する。
// JWTAuthミドルウェアが事前に適用されている必要がある。
func GetClaims(c *gin.Context) (*JWTClaims, bool) {
	v, ok := c.Get(contextKeyClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*JWTClaims)
	return claims, ok
}
