package ticket

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/tickethub/pkg/logrecord"
	"github.com/nao1215/tickethub/pkg/middleware"
)

// emitLog はログレコードをログサービスに送信する。
// 送信に失敗してもエラーは返さず、ローカルのログに出力するだけにする。
// クライアントが切断しても送信を続けるため、リクエストのキャンセルは引き継がない。
func (s *Server) emitLog(c *gin.Context, level logrecord.Level, message string, logCtx any) {
	entry, err := logrecord.NewEntry(logrecord.ServiceCRUD, level, message, logCtx)
	if err != nil {
		log.Printf("[CRUD] ログエントリの生成に失敗: %v", err)
		return
	}

	ctx := context.WithoutCancel(c.Request.Context())
	if err := s.logClient.PostJSON(ctx, "/log", entry, nil); err != nil {
		log.Printf("[CRUD] ログの送信に失敗: %v", err)
	}
}

// ticketContext はチケット操作のログコンテキストを生成する。
func ticketContext(c *gin.Context, ticketID int64, opErr error) logrecord.TicketContext {
	tc := logrecord.TicketContext{
		TicketID:  ticketID,
		UserID:    middleware.GetUserID(c),
		RequestID: middleware.GetRequestID(c),
	}
	if opErr != nil {
		tc.Error = opErr.Error()
	}
	return tc
}
