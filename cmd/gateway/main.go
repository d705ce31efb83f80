// API Gatewayサービスのエントリポイント。
// トークンの検証、識別ヘッダーの伝播、内部サービスへのリクエストルーティングを担当する。
// 外部からアクセス可能な唯一のサービスであり、セキュリティの境界線となる。
package main

import (
	"log"
	"os"

	"github.com/nao1215/tickethub/internal/gateway"
	"github.com/nao1215/tickethub/pkg/config"
)

func main() {
	cfg, err := config.Load(config.ServiceGateway, os.Args[1:])
	if err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}

	server := gateway.NewServer(cfg)

	log.Printf("Gatewayサービスを起動します: :%s", cfg.Port)
	if err := server.Run(); err != nil {
		log.Fatalf("Gatewayサービスの起動に失敗: %v", err)
	}
}
