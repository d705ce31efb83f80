// Package gateway はAPI Gatewayサービスを提供する。
//
// 外部からアクセス可能な唯一のサービスであり、信頼境界として機能する。
// 保護されたルートではBearerトークンを検証し、検証済みのユーザーIDとメールアドレスを
// x-user-id / x-user-email ヘッダーとして内部サービスに伝播する。
// クライアントが送った同名のヘッダーは転送前に必ず取り除く。
//
// ルーティング:
//
//	POST /api/auth/register  → 認証サービス /register
//	POST /api/auth/login     → 認証サービス /login
//	*    /api/tickets[/...]  → チケットサービス /tickets[/...]（要認証）
//	GET  /api/logs           → ログサービス /logs（要認証）
//	GET  /health             ヘルスチェック
//
// 内部サービスのレスポンスはステータス、ヘッダー、ボディをそのまま返す。
// 内部サービスに到達できない場合は502を返す。
package gateway
