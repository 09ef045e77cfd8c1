package gateway

import "encoding/json"

// SearchRequest はPOST /search のリクエストボディ。
type SearchRequest struct {
	Query     string `json:"query" binding:"required"`
	SessionID string `json:"sessionId" binding:"required"`
}

// StoreRequest はPOST /store のリクエストボディ。
// messagesの各要素は解釈せずに外部APIへ転送する。
type StoreRequest struct {
	SessionID string            `json:"sessionId" binding:"required"`
	Messages  []json.RawMessage `json:"messages" binding:"required"`
}

// storeResponse はPOST /store の成功レスポンス。
type storeResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// indexResponse はGET / のレスポンス。
type indexResponse struct {
	Status    string   `json:"status"`
	Message   string   `json:"message"`
	Endpoints []string `json:"endpoints"`
}

// エラーメッセージ。クライアントとの契約なので変更しないこと。
const (
	errAPIKeyNotConfigured = "ZEP_API_KEY not configured"
	errSearchFieldsMissing = "query and sessionId are required"
	errStoreFieldsMissing  = "sessionId and messages are required"
	errSessionIDMissing    = "sessionId is required"
)
