// Package ticket はユーザーごとのチケットを管理するCRUDサービスを提供する。
//
// 呼び出し元のユーザーはGatewayが付与する x-user-id ヘッダーで識別する。
// このヘッダーは検証せずに信頼するため、サービスを外部に直接公開してはならない。
//
// チケットの取得・更新・削除は (id, user_id) の組で絞り込む。
// 存在しないチケットと他のユーザーのチケットはどちらも404になり、区別できない。
//
// 作成・更新・削除の結果はログサービスに同期的に送信する。
// 送信の失敗はローカルのログに出力するだけで、クライアントへの応答には影響しない。
//
// エンドポイント:
//
//	POST   /tickets      チケット作成
//	GET    /tickets      チケット一覧取得
//	GET    /tickets/:id  チケット取得
//	PUT    /tickets/:id  チケット更新
//	DELETE /tickets/:id  チケット削除
//	GET    /health       ヘルスチェック
package ticket
