// Package database はサービスのコネクションプールを提供する。
//
// 本番ではPostgreSQL（pgx）、ローカル実行とテストではSQLite（modernc.org/sqlite）を
// 使用する。どちらの方言でもクエリは $1 形式のプレースホルダで記述する。
package database
