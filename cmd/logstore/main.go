// ログサービスのエントリポイント。
// 各サービスから送られたシステムログの保存と参照を担当する。
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/nao1215/tickethub/internal/logstore"
	"github.com/nao1215/tickethub/pkg/config"
	"github.com/nao1215/tickethub/pkg/database"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		log.Fatalf("ログサービスの起動に失敗: %v", err)
	}
}

// run は設定を読み込み、データベースに接続してサーバーを起動する。
// サーバーが停止するまで戻らない。
func run(ctx context.Context, args []string) error {
	cfg, err := config.Load(config.ServiceLogStore, args)
	if err != nil {
		return fmt.Errorf("設定の読み込みに失敗: %w", err)
	}

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("データベース接続に失敗: %w", err)
	}
	defer db.Close()

	server, err := logstore.NewServer(ctx, cfg, db)
	if err != nil {
		return fmt.Errorf("サーバーの初期化に失敗: %w", err)
	}

	log.Printf("ログサービスを起動します: :%s", cfg.Port)
	return server.Run()
}
