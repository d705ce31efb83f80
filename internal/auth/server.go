package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	authdb "github.com/nao1215/tickethub/internal/auth/db"
	"github.com/nao1215/tickethub/pkg/config"
	"github.com/nao1215/tickethub/pkg/database"
	"github.com/nao1215/tickethub/pkg/middleware"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost はパスワードハッシュのコストパラメータ。
const bcryptCost = 10

// errInvalidCredentials はメールアドレスまたはパスワードが誤っている場合の応答メッセージ。
// ユーザーが存在しない場合とパスワードが違う場合で共通。
const errInvalidCredentials = "メールアドレスまたはパスワードが正しくありません"

// Server は認証サービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// queries はusersテーブルのクエリ実行オブジェクト。
	queries *authdb.Queries
	// db はデータベース接続。
	db *database.DB
	// jwtSecret はトークン署名用の秘密鍵。
	jwtSecret string
}

// NewServer は新しい認証サーバーを生成する。
// データベースにスキーマを適用してからルーティングを設定する。
func NewServer(ctx context.Context, cfg *config.Config, db *database.DB) (*Server, error) {
	if err := initSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.RequestID())

	s := &Server{
		router:    router,
		port:      cfg.Port,
		queries:   authdb.New(db),
		db:        db,
		jwtSecret: cfg.JWTSecret,
	}
	s.setupRoutes()

	return s, nil
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
	// ユーザー登録
	s.router.POST("/register", s.handleRegister())
	// ログイン
	s.router.POST("/login", s.handleLogin())

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "auth"})
	})
}

// credentialsRequest はユーザー登録とログインのリクエストJSON構造。
type credentialsRequest struct {
	// Email はメールアドレス。
	Email string `json:"email" binding:"required"`
	// Password は平文のパスワード。
	Password string `json:"password" binding:"required"`
}

// userResponse はユーザー情報のJSONレスポンス構造。パスワードハッシュは含めない。
type userResponse struct {
	// ID はユーザーの連番。
	ID int64 `json:"id"`
	// Email はメールアドレス。
	Email string `json:"email"`
}

// handleRegister はユーザー登録を処理するハンドラを返す。
// 同じメールアドレスが登録済みの場合は409を返す。
func (s *Server) handleRegister() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req credentialsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "emailとpasswordは必須です"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
		if err != nil {
			// 72バイトを超えるパスワードはbcryptで扱えない
			if errors.Is(err, bcrypt.ErrPasswordTooLong) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "パスワードが長すぎます"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザー登録に失敗しました"})
			log.Printf("[Auth] パスワードハッシュ生成エラー: %v", err)
			return
		}

		user, err := s.queries.CreateUser(c.Request.Context(), authdb.CreateUserParams{
			Email:        req.Email,
			PasswordHash: string(hash),
		})
		if err != nil {
			if database.IsUniqueViolation(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "このメールアドレスは既に登録されています"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザー登録に失敗しました"})
			log.Printf("[Auth] ユーザー作成エラー: %v", err)
			return
		}

		log.Printf("[Auth] ユーザーを登録しました: id=%d", user.ID)
		c.JSON(http.StatusCreated, userResponse{ID: user.ID, Email: user.Email})
	}
}

// handleLogin はログインを処理するハンドラを返す。
// 認証に成功した場合は有効期限1時間のトークンを返す。
func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req credentialsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "emailとpasswordは必須です"})
			return
		}

		user, err := s.queries.GetUserByEmail(c.Request.Context(), req.Email)
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": errInvalidCredentials})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ログインに失敗しました"})
			log.Printf("[Auth] ユーザー取得エラー: %v", err)
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": errInvalidCredentials})
			return
		}

		token, err := middleware.GenerateJWT(s.jwtSecret, user.ID, user.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "トークンの発行に失敗しました"})
			log.Printf("[Auth] トークン生成エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}
