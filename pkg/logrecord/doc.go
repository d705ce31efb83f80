// Package logrecord はログサービスが扱うログレコードの型を提供する。
//
// ログサービス本体と、ログを送信する各サービスの双方から参照される。
package logrecord
