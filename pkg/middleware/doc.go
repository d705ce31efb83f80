// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// IDトークンの発行と検証、Gatewayが伝播する識別ヘッダーの読み取り、
// リクエストID、パニックリカバリ、CORS設定など、全サービスで共通して使用する
// ミドルウェアを含む。
package middleware
