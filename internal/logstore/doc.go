// Package logstore はシステムログを保存・参照するログサービスを提供する。
//
// 各サービスから送られたログレコードを追記専用で保存し、新しい順にページングして返す。
// 送信元の認証は行わないため、内部ネットワークからのみ到達できる場所に配置すること。
//
// エンドポイント:
//
//	POST /log     ログレコードの取り込み
//	GET  /logs    ログレコードの取得（?limit=50&offset=0）
//	GET  /health  ヘルスチェック
package logstore
