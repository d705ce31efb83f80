// Package auth はユーザー登録とログインを担う認証サービスを提供する。
//
// パスワードはbcryptでハッシュ化して保存し、ログインに成功したユーザーには
// 有効期限1時間のJWT（HS256）を発行する。トークンの検証はGatewayが行う。
//
// エンドポイント:
//
//	POST /register  ユーザー登録
//	POST /login     ログイン（トークン発行）
//	GET  /health    ヘルスチェック
package auth
