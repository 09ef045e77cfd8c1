// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// パニックリカバリ、CORS設定、リクエストIDの付与、
// クライアント向けJWT認証など、ゲートウェイで使用するミドルウェアを含む。
package middleware
