// Package httpclient はサービス間のHTTP通信を行うクライアントを提供する。
//
// チケットサービスからログサービスへのログ送信など、
// サービス間の通信パターンを統一する。
package httpclient
