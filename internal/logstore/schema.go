package logstore

import (
	"context"
	"embed"
	"fmt"

	"github.com/nao1215/tickethub/pkg/database"
	"github.com/nao1215/tickethub/pkg/migration"
)

// migrations はデータベースの種類ごとのマイグレーションファイル。
//
//go:embed migrations
var migrations embed.FS

// initSchema はデータベースの種類に応じたマイグレーションを適用する。
func initSchema(ctx context.Context, db *database.DB) error {
	if err := migration.Run(ctx, db.DB, migrations, "migrations/"+string(db.Dialect)); err != nil {
		return fmt.Errorf("スキーマの適用に失敗: %w", err)
	}
	return nil
}
