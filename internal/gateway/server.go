package gateway

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/tickethub/pkg/config"
	"github.com/nao1215/tickethub/pkg/middleware"
)

// Server はAPI GatewayサービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// jwtSecret はJWT検証用の秘密鍵。
	jwtSecret string
	// serviceURLs は内部サービスのURL。
	serviceURLs serviceURLConfig
	// client は内部サービスへの転送に使うHTTPクライアント。
	client *http.Client
}

// serviceURLConfig は内部サービスのURL設定。
type serviceURLConfig struct {
	Auth string
	CRUD string
	Log  string
}

// NewServer は新しいGatewayサーバーを生成する。
func NewServer(cfg *config.Config) *Server {
	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg.CORSOrigins))

	s := &Server{
		router:    router,
		port:      cfg.Port,
		jwtSecret: cfg.JWTSecret,
		serviceURLs: serviceURLConfig{
			Auth: cfg.AuthServiceURL,
			CRUD: cfg.CRUDServiceURL,
			Log:  cfg.LogServiceURL,
		},
		client: &http.Client{
			// リダイレクトは追跡せず、内部サービスの3xxをそのままクライアントに返す
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
	s.setupRoutes()

	return s
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// Handler はルーティング済みのHTTPハンドラを返す。
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	// 認証エンドポイント（認証不要）
	auth := s.router.Group("/api/auth")
	{
		auth.POST("/register", s.handleProxy(s.serviceURLs.Auth, "/register"))
		auth.POST("/login", s.handleProxy(s.serviceURLs.Auth, "/login"))
	}

	// 認証必須のAPIエンドポイント
	api := s.router.Group("/api")
	api.Use(middleware.JWTAuth(s.jwtSecret))
	{
		// チケット（パスの /api を取り除いて転送）
		api.Any("/tickets", s.handleProxyStripPrefix(s.serviceURLs.CRUD, "/api"))
		api.Any("/tickets/*suffix", s.handleProxyStripPrefix(s.serviceURLs.CRUD, "/api"))

		// システムログ
		api.GET("/logs", s.handleProxy(s.serviceURLs.Log, "/logs"))
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "gateway"})
	})
}
