package zep

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/nao1215/zepgate/pkg/httpclient"
)

// DefaultBaseURL はZEP_API_URLが未設定の場合に使う接続先。
const DefaultBaseURL = "https://api.getzep.com"

// Client はZepのセッションメモリAPIクライアント。
type Client struct {
	http *httpclient.Client
}

// NewClient は新しいZepクライアントを生成する。
// timeoutが0の場合、外部API呼び出しはタイムアウトしない。
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http: httpclient.New(strings.TrimRight(baseURL, "/"), apiKey, httpclient.WithTimeout(timeout)),
	}
}

// searchPayload は検索APIに送るリクエストボディ。
type searchPayload struct {
	Text string `json:"text"`
}

// memoryPayload はメモリ追加APIに送るリクエストボディ。
type memoryPayload struct {
	Messages []json.RawMessage `json:"messages"`
}

// Search はセッションのメモリを検索する。
func (c *Client) Search(ctx context.Context, sessionID, query string) ([]byte, error) {
	return c.http.PostJSON(ctx, sessionPath(sessionID, "search"), searchPayload{Text: query})
}

// AddMemory はセッションにメッセージを追加する。
// メッセージの中身は解釈せずにそのまま送信する。
func (c *Client) AddMemory(ctx context.Context, sessionID string, messages []json.RawMessage) ([]byte, error) {
	return c.http.PostJSON(ctx, sessionPath(sessionID, "memory"), memoryPayload{Messages: messages})
}

// GetMemory はセッションのメモリを取得する。
func (c *Client) GetMemory(ctx context.Context, sessionID string) ([]byte, error) {
	return c.http.GetJSON(ctx, sessionPath(sessionID, "memory"))
}

// sessionPath は /api/v1/sessions/{sessionID}/{resource} を組み立てる。
func sessionPath(sessionID, resource string) string {
	return "/api/v1/sessions/" + url.PathEscape(sessionID) + "/" + resource
}
