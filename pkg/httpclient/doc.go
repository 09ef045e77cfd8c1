// Package httpclient は外部APIとのJSON over HTTP通信を行うクライアントを提供する。
//
// サーバー側で保持する認証情報をBearerトークンとして付与し、
// 2xx応答ではレスポンスボディをそのまま返す。2xx以外の応答は
// ステータスコードとボディを保持する *StatusError として返す。
package httpclient
