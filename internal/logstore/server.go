package logstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	logstoredb "github.com/nao1215/tickethub/internal/logstore/db"
	"github.com/nao1215/tickethub/pkg/config"
	"github.com/nao1215/tickethub/pkg/database"
	"github.com/nao1215/tickethub/pkg/lenient"
	"github.com/nao1215/tickethub/pkg/logrecord"
	"github.com/nao1215/tickethub/pkg/middleware"
)

const (
	// defaultLimit はlimit未指定時の取得件数。
	defaultLimit = 50
	// defaultOffset はoffset未指定時の読み飛ばし件数。
	defaultOffset = 0
)

// Server はログサービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// queries はsystem_logsテーブルのクエリ実行オブジェクト。
	queries *logstoredb.Queries
	// db はデータベース接続。
	db *database.DB
}

// NewServer は新しいログサーバーを生成する。
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
		router:  router,
		port:    cfg.Port,
		queries: logstoredb.New(db),
		db:      db,
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
	// ログの取り込み
	s.router.POST("/log", s.handleIngest())
	// ログの取得
	s.router.GET("/logs", s.handleList())

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "logstore"})
	})
}

// ingestRequest はログ取り込みリクエストのJSON構造。
type ingestRequest struct {
	// Timestamp は事象の発生日時（RFC 3339）。
	Timestamp string `json:"timestamp" binding:"required"`
	// Level は重要度。値は検証しない。
	Level string `json:"level" binding:"required"`
	// Service は送信元のサービス名。
	Service string `json:"service" binding:"required"`
	// Message は人間向けのメッセージ。
	Message string `json:"message" binding:"required"`
	// Context は任意の構造化データ。
	Context json.RawMessage `json:"context"`
}

// toRecord はDB行をJSONレスポンスに変換する。
func toRecord(l logstoredb.SystemLog) logrecord.Record {
	return logrecord.Record{
		ID:        l.ID,
		Timestamp: l.Timestamp.UTC(),
		Level:     logrecord.Level(l.Level),
		Service:   l.Service,
		Message:   l.Message,
		Context:   logrecord.NormalizeContext(l.Context),
	}
}

// handleIngest はログレコードの取り込みを処理するハンドラを返す。
// timestamp, level, service, message のいずれかが欠けている場合は400を返す。
func (s *Server) handleIngest() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ingestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "timestamp, level, service, message は必須です"})
			return
		}

		timestamp, err := time.Parse(time.RFC3339Nano, req.Timestamp)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "timestampはRFC 3339形式で指定してください"})
			return
		}

		if err := s.queries.InsertLog(c.Request.Context(), logstoredb.InsertLogParams{
			Timestamp: timestamp.UTC(),
			Level:     req.Level,
			Service:   req.Service,
			Message:   req.Message,
			Context:   string(logrecord.NormalizeContext(req.Context)),
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ログの保存に失敗しました"})
			log.Printf("ログ保存エラー: %v", err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"status": "ログを保存しました"})
	}
}

// handleList はログレコードの取得を処理するハンドラを返す。
// limitとoffsetは先頭の整数部分だけを読み、解釈できない値や0は既定値として扱う。
func (s *Server) handleList() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := lenient.IntOr(c.Query("limit"), defaultLimit)
		offset := lenient.IntOr(c.Query("offset"), defaultOffset)

		logs, err := s.queries.ListLogs(c.Request.Context(), logstoredb.ListLogsParams{
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ログの取得に失敗しました"})
			log.Printf("ログ取得エラー: %v", err)
			return
		}

		records := make([]logrecord.Record, 0, len(logs))
		for _, l := range logs {
			records = append(records, toRecord(l))
		}

		c.JSON(http.StatusOK, records)
	}
}
