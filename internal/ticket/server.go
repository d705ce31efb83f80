package ticket

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	ticketdb "github.com/nao1215/tickethub/internal/ticket/db"
	"github.com/nao1215/tickethub/pkg/config"
	"github.com/nao1215/tickethub/pkg/database"
	"github.com/nao1215/tickethub/pkg/httpclient"
	"github.com/nao1215/tickethub/pkg/lenient"
	"github.com/nao1215/tickethub/pkg/logrecord"
	"github.com/nao1215/tickethub/pkg/middleware"
)

// errTicketNotFound はチケットが存在しない場合と所有者が異なる場合に共通の応答メッセージ。
const errTicketNotFound = "チケットが見つからないか、アクセス権がありません"

// Server はチケットサービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// queries はticketsテーブルのクエリ実行オブジェクト。
	queries *ticketdb.Queries
	// db はデータベース接続。
	db *database.DB
	// logClient はログサービスへのHTTPクライアント。
	logClient *httpclient.Client
	// now は現在時刻を返す関数。テストで差し替える。
	now func() time.Time
}

// NewServer は新しいチケットサーバーを生成する。
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
		queries:   ticketdb.New(db),
		db:        db,
		logClient: httpclient.New(cfg.LogServiceURL),
		now:       time.Now,
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
	tickets := s.router.Group("/tickets")
	tickets.Use(middleware.TrustedIdentity(s.logUnauthorized))
	{
		// チケット作成
		tickets.POST("", s.handleCreate())
		// チケット一覧取得
		tickets.GET("", s.handleList())
		// チケット取得
		tickets.GET("/:id", s.handleGetByID())
		// チケット更新
		tickets.PUT("/:id", s.handleUpdate())
		// チケット削除
		tickets.DELETE("/:id", s.handleDelete())
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "ticket"})
	})
}

// logUnauthorized は識別ヘッダーの無いアクセスをログサービスに記録する。
func (s *Server) logUnauthorized(c *gin.Context) {
	s.emitLog(c, logrecord.LevelWarn, "x-user-idヘッダーの無いアクセスを拒否しました",
		logrecord.UnauthorizedContext{IP: c.ClientIP()})
}

// createTicketRequest はチケット作成リクエストのJSON構造。
type createTicketRequest struct {
	// Title はチケットのタイトル。
	Title string `json:"title" binding:"required"`
	// Description はチケットの説明。
	Description string `json:"description"`
}

// updateTicketRequest はチケット更新リクエストのJSON構造。
type updateTicketRequest struct {
	// Title はチケットのタイトル。
	Title string `json:"title" binding:"required"`
	// Description はチケットの説明。
	Description string `json:"description"`
	// Status はチケットの状態。
	Status Status `json:"status" binding:"required"`
}

// ticketResponse はチケットのJSONレスポンス構造。
type ticketResponse struct {
	// ID はチケットの連番。
	ID int64 `json:"id"`
	// Title はタイトル。
	Title string `json:"title"`
	// Description は説明。
	Description string `json:"description"`
	// Status は状態。
	Status string `json:"status"`
	// UserID はチケットを作成したユーザーのID。
	UserID int64 `json:"user_id"`
	// CreatedAt は作成日時。
	CreatedAt time.Time `json:"created_at"`
}

// toTicketResponse はDB行をJSONレスポンスに変換する。
func toTicketResponse(t ticketdb.Ticket) ticketResponse {
	return ticketResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		UserID:      t.UserID,
		CreatedAt:   t.CreatedAt.UTC(),
	}
}

// ticketID はパスパラメータからチケットIDを読み取る。
// 先頭の整数部分だけを読み、解釈できない場合はfalseを返す。
func ticketID(c *gin.Context) (int64, bool) {
	return lenient.ParseInt(c.Param("id"))
}

// handleCreate はチケット作成を処理するハンドラを返す。
// 状態はNewで作成し、結果をログサービスに送信する。
func (s *Server) handleCreate() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)

		var req createTicketRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "titleは必須です"})
			return
		}

		id, err := s.queries.CreateTicket(c.Request.Context(), ticketdb.CreateTicketParams{
			Title:       req.Title,
			Description: req.Description,
			Status:      string(StatusNew),
			UserID:      userID,
			CreatedAt:   s.now().UTC(),
		})
		if err != nil {
			log.Printf("[CRUD] チケット作成エラー: %v", err)
			s.emitLog(c, logrecord.LevelError, "チケットの作成に失敗しました", ticketContext(c, 0, err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "チケットの作成に失敗しました"})
			return
		}

		created, err := s.queries.GetTicket(c.Request.Context(), ticketdb.GetTicketParams{ID: id, UserID: userID})
		if err != nil {
			log.Printf("[CRUD] チケット取得エラー: %v", err)
			s.emitLog(c, logrecord.LevelError, "チケットの作成に失敗しました", ticketContext(c, id, err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "作成したチケットの取得に失敗しました"})
			return
		}

		s.emitLog(c, logrecord.LevelInfo, "チケットを作成しました", ticketContext(c, created.ID, nil))
		c.JSON(http.StatusCreated, toTicketResponse(created))
	}
}

// handleList はユーザーのチケット一覧取得を処理するハンドラを返す。
func (s *Server) handleList() gin.HandlerFunc {
	return func(c *gin.Context) {
		tickets, err := s.queries.ListTicketsByUserID(c.Request.Context(), middleware.GetUserID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "チケット一覧の取得に失敗しました"})
			log.Printf("[CRUD] チケット一覧取得エラー: %v", err)
			return
		}

		responses := make([]ticketResponse, 0, len(tickets))
		for _, t := range tickets {
			responses = append(responses, toTicketResponse(t))
		}

		c.JSON(http.StatusOK, responses)
	}
}

// handleGetByID はチケット取得を処理するハンドラを返す。
func (s *Server) handleGetByID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := ticketID(c)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": errTicketNotFound})
			return
		}

		t, err := s.queries.GetTicket(c.Request.Context(), ticketdb.GetTicketParams{
			ID:     id,
			UserID: middleware.GetUserID(c),
		})
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": errTicketNotFound})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "チケットの取得に失敗しました"})
			log.Printf("[CRUD] チケット取得エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, toTicketResponse(t))
	}
}

// handleUpdate はチケット更新を処理するハンドラを返す。
// タイトル、説明、状態を上書きし、結果をログサービスに送信する。
func (s *Server) handleUpdate() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		id, ok := ticketID(c)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": errTicketNotFound})
			return
		}

		var req updateTicketRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "titleとstatusは必須です"})
			return
		}
		if !req.Status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("statusは %s, %s, %s のいずれかを指定してください", StatusNew, StatusInProgress, StatusDone),
			})
			return
		}

		n, err := s.queries.UpdateTicket(c.Request.Context(), ticketdb.UpdateTicketParams{
			Title:       req.Title,
			Description: req.Description,
			Status:      string(req.Status),
			ID:          id,
			UserID:      userID,
		})
		if err != nil {
			log.Printf("[CRUD] チケット更新エラー: %v", err)
			s.emitLog(c, logrecord.LevelError, "チケットの更新に失敗しました", ticketContext(c, id, err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "チケットの更新に失敗しました"})
			return
		}
		if n == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": errTicketNotFound})
			return
		}

		updated, err := s.queries.GetTicket(c.Request.Context(), ticketdb.GetTicketParams{ID: id, UserID: userID})
		if err != nil {
			log.Printf("[CRUD] チケット取得エラー: %v", err)
			s.emitLog(c, logrecord.LevelError, "チケットの更新に失敗しました", ticketContext(c, id, err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "更新後のチケットの取得に失敗しました"})
			return
		}

		s.emitLog(c, logrecord.LevelInfo, "チケットを更新しました", ticketContext(c, id, nil))
		c.JSON(http.StatusOK, toTicketResponse(updated))
	}
}

// handleDelete はチケット削除を処理するハンドラを返す。
// 削除したチケットは返さず、確認メッセージだけを返す。
func (s *Server) handleDelete() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := ticketID(c)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": errTicketNotFound})
			return
		}

		n, err := s.queries.DeleteTicket(c.Request.Context(), ticketdb.DeleteTicketParams{
			ID:     id,
			UserID: middleware.GetUserID(c),
		})
		if err != nil {
			log.Printf("[CRUD] チケット削除エラー: %v", err)
			s.emitLog(c, logrecord.LevelError, "チケットの削除に失敗しました", ticketContext(c, id, err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "チケットの削除に失敗しました"})
			return
		}
		if n == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": errTicketNotFound})
			return
		}

		s.emitLog(c, logrecord.LevelInfo, "チケットを削除しました", ticketContext(c, id, nil))
		c.JSON(http.StatusOK, gin.H{"message": "チケットを削除しました"})
	}
}
