// 認証サービスのエントリポイント。
// ユーザー登録とログイン（トークン発行）を担当する。
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/nao1215/tickethub/internal/auth"
	"github.com/nao1215/tickethub/pkg/config"
	"github.com/nao1215/tickethub/pkg/database"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		log.Fatalf("認証サービスの起動に失敗: %v", err)
	}
}

// run は設定を読み込み、データベースに接続してサーバーを起動する。
// サーバーが停止するまで戻らない。
func run(ctx context.Context, args []string) error {
	cfg, err := config.Load(config.ServiceAuth, args)
	if err != nil {
		return fmt.Errorf("設定の読み込みに失敗: %w", err)
	}

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("データベース接続に失敗: %w", err)
	}
	defer db.Close()

	server, err := auth.NewServer(ctx, cfg, db)
	if err != nil {
		return fmt.Errorf("サーバーの初期化に失敗: %w", err)
	}

	log.Printf("認証サービスを起動します: :%s", cfg.Port)
	return server.Run()
}
