// Package gateway はセッションメモリAPIへのゲートウェイサービスの内部実装を提供する。
//
// ブラウザ等のクライアントからの検索・保存・取得リクエストを受け付け、
// サーバー側で保持するAPIキーをBearerトークンとして付与して外部APIに転送する。
// APIキーはクライアントに一切渡らない。状態は持たず、各リクエストは独立している。
package gateway
