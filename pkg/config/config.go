package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Service は設定を読み込むサービスの種類を表す。
type Service string

const (
	// ServiceGateway はAPI Gatewayサービス。
	ServiceGateway Service = "gateway"
	// ServiceAuth は認証サービス。
	ServiceAuth Service = "auth"
	// ServiceTicket はチケット（CRUD）サービス。
	ServiceTicket Service = "ticket"
	// ServiceLogStore はログサービス。
	ServiceLogStore Service = "logstore"
)

// defaultPorts はサービスごとのデフォルトのリッスンポート。
var defaultPorts = map[Service]string{
	ServiceGateway:  "3000",
	ServiceAuth:     "3001",
	ServiceTicket:   "3002",
	ServiceLogStore: "3003",
}

// defaultJWTSecret は開発用のJWT署名秘密鍵。本番環境では必ずJWT_SECRETを設定すること。
const defaultJWTSecret = "dev-secret-key"

// Config は各サービスの起動時設定。起動時に一度だけ読み込み、以後変更しない。
type Config struct {
	// Service は設定の対象サービス。
	Service Service
	// Port はサーバーのリッスンポート。
	Port string
	// DatabaseURL はデータベース接続URL（postgres:// または sqlite:）。
	DatabaseURL string
	// JWTSecret はJWT署名用の秘密鍵。
	JWTSecret string
	// AuthServiceURL は認証サービスのベースURL。
	AuthServiceURL string
	// CRUDServiceURL はチケットサービスのベースURL。
	CRUDServiceURL string
	// LogServiceURL はログサービスのベースURL。
	LogServiceURL string
	// CORSOrigins はCORSで許可するオリジン。"*" はすべてのオリジンを許可する。
	CORSOrigins []string
}

// Load は .env ファイル、環境変数、コマンドライン引数の順に設定を読み込む。
// 後から読み込んだ値が優先される。.env ファイルは存在しなくてもよい。
func Load(service Service, args []string) (*Config, error) {
	flags := pflag.NewFlagSet(string(service), pflag.ContinueOnError)
	envFile := flags.String("env-file", ".env", "読み込む.envファイルのパス")
	port := flags.String("port", "", "リッスンポート（PORTより優先）")
	databaseURL := flags.String("database-url", "", "データベース接続URL（DATABASE_URLより優先）")
	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("コマンドライン引数の解析に失敗: %w", err)
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf(".envファイルの読み込みに失敗: %w", err)
	}

	cfg := &Config{
		Service:        service,
		Port:           getEnvOr("PORT", defaultPorts[service]),
		DatabaseURL:    databaseURLFromEnv(service),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AuthServiceURL: getEnvOr("AUTH_SERVICE_URL", "http://localhost:3001"),
		CRUDServiceURL: getEnvOr("CRUD_SERVICE_URL", "http://localhost:3002"),
		LogServiceURL:  getEnvOr("LOG_SERVICE_URL", "http://localhost:3003"),
		CORSOrigins:    splitList(getEnvOr("CORS_ORIGINS", "*")),
	}
	if *port != "" {
		cfg.Port = *port
	}
	if *databaseURL != "" {
		cfg.DatabaseURL = *databaseURL
	}

	if cfg.JWTSecret == "" && (service == ServiceGateway || service == ServiceAuth) {
		log.Printf("[Config] JWT_SECRETが未設定のため開発用の秘密鍵を使用します")
		cfg.JWTSecret = defaultJWTSecret
	}

	return cfg, nil
}

// databaseURLFromEnv はデータベース接続URLを環境変数から組み立てる。
// DATABASE_URL が優先され、次に DB_HOST 等の個別変数からPostgreSQLのURLを作る。
// どちらも無い場合はサービスごとのSQLiteファイルを使う。
func databaseURLFromEnv(service Service) string {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v
	}

	if host := os.Getenv("DB_HOST"); host != "" {
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD")),
			Host:     host + ":" + getEnvOr("DB_PORT", "5432"),
			Path:     "/" + os.Getenv("DB_DATABASE"),
			RawQuery: "sslmode=" + getEnvOr("DB_SSLMODE", "disable"),
		}
		return u.String()
	}

	return fmt.Sprintf("sqlite:%s.db", service)
}

// splitList はカンマ区切りの文字列を空要素を除いたスライスに変換する。
func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// getEnvOr は環境変数を取得し、設定されていない場合はデフォルト値を返す。
func getEnvOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
