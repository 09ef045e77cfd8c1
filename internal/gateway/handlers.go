package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/nao1215/zepgate/pkg/httpclient"
	"github.com/nao1215/zepgate/pkg/middleware"
)

// endpoints はGET / で案内する転送ルートの一覧。
var endpoints = []string{"/search", "/store", "/retrieve"}

// handleIndex は稼働状況を返すハンドラを返す。外部APIは呼び出さない。
func (s *Server) handleIndex() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, indexResponse{
			Status:    "ok",
			Message:   "Zep API Server is running",
			Endpoints: endpoints,
		})
	}
}

// handleSearch はセッションメモリの検索を転送するハンドラを返す。
func (s *Server) handleSearch() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.requireAPIKey(c) {
			return
		}

		var req SearchRequest
		if err := bindJSON(c, &req); err != nil {
			respondBindError(c, err, errSearchFieldsMissing)
			return
		}

		body, err := s.memory.Search(upstreamContext(c), req.SessionID, req.Query)
		if err != nil {
			respondUpstreamError(c, err)
			return
		}
		relay(c, body)
	}
}

// handleStore はセッションへのメッセージ保存を転送するハンドラを返す。
func (s *Server) handleStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.requireAPIKey(c) {
			return
		}

		var req StoreRequest
		if err := bindJSON(c, &req); err != nil {
			respondBindError(c, err, errStoreFieldsMissing)
			return
		}

		body, err := s.memory.AddMemory(upstreamContext(c), req.SessionID, req.Messages)
		if err != nil {
			respondUpstreamError(c, err)
			return
		}
		c.JSON(http.StatusOK, storeResponse{Success: true, Data: bodyValue(body)})
	}
}

// handleRetrieve はセッションメモリの取得を転送するハンドラを返す。
func (s *Server) handleRetrieve() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.requireAPIKey(c) {
			return
		}

		// 通常のルーティングでは空にならないが念のため確認する
		sessionID := c.Param("sessionId")
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": errSessionIDMissing})
			return
		}

		body, err := s.memory.GetMemory(upstreamContext(c), sessionID)
		if err != nil {
			respondUpstreamError(c, err)
			return
		}
		relay(c, body)
	}
}

// maxBodyBytes はリクエストボディの上限。
const maxBodyBytes = 100 << 10

// errUnsupportedContentType はContent-TypeがJSONでないことを表す。
var errUnsupportedContentType = errors.New("Content-Typeがapplication/jsonではありません")

// bindJSON はリクエストボディを厳密にJSONとしてデコードし、bindingタグで検証する。
// Content-TypeがJSON以外、JSONの後に余分なデータがある、上限を超える場合はエラーを返す。
func bindJSON(c *gin.Context, v any) error {
	if c.ContentType() != binding.MIMEJSON {
		return errUnsupportedContentType
	}
	if c.Request.Body == nil {
		return io.EOF
	}

	dec := json.NewDecoder(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("リクエストボディのデコードに失敗: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("JSONの後に余分なデータがあります")
		}
		return fmt.Errorf("リクエストボディのデコードに失敗: %w", err)
	}
	return binding.Validator.ValidateStruct(v)
}

// respondBindError はボディの解析失敗を返す。上限超過は413、それ以外は400。
func respondBindError(c *gin.Context, err error, message string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request entity too large"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// requireAPIKey はAPIキーが未設定の場合に500を返し、falseを返す。
func (s *Server) requireAPIKey(c *gin.Context) bool {
	if s.config.APIKeyConfigured() {
		return true
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": errAPIKeyNotConfigured})
	return false
}

// upstreamContext は外部API呼び出し用のコンテキストを返す。
// クライアントが切断した場合は外部API呼び出しもキャンセルされる。
func upstreamContext(c *gin.Context) context.Context {
	return httpclient.WithRequestID(c.Request.Context(), middleware.GetRequestID(c))
}

// relay は外部APIのレスポンスボディを200でそのまま返す。
// JSONとして不正なボディは文字列としてJSONエンコードする。
func relay(c *gin.Context, body []byte) {
	if json.Valid(body) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", body)
		return
	}
	c.JSON(http.StatusOK, string(body))
}

// bodyValue は外部APIのレスポンスボディをJSONに埋め込める値に変換する。
func bodyValue(body []byte) any {
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	return string(body)
}

// respondUpstreamError は外部API呼び出しの失敗を {"error","details"} の形で返す。
// ステータスは外部APIの応答があればそれを、無ければ500を使う。
func respondUpstreamError(c *gin.Context, err error) {
	status, details := upstreamFailure(err)
	action := middleware.GetAction(c)

	log.Printf("%s error: request_id=%s status=%d details=%s", action, middleware.GetRequestID(c), status, detailsText(details))
	c.JSON(status, gin.H{
		"error":   action + " failed",
		"details": details,
	})
}

// upstreamFailure はエラーからレスポンスのステータスとdetailsを取り出す。
func upstreamFailure(err error) (int, any) {
	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) {
		if isFalsyJSON(statusErr.Body) {
			return statusErr.StatusCode, statusErr.Error()
		}
		return statusErr.StatusCode, bodyValue(statusErr.Body)
	}

	// 通信エラーはURLと原因だけを返す
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return http.StatusInternalServerError, urlErr.Error()
	}
	return http.StatusInternalServerError, err.Error()
}

// isFalsyJSON はボディが空、またはnull・false・0・""のいずれかであるかを返す。
// これらはエラー内容を持たないとみなす。
func isFalsyJSON(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return true
	}
	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return false
	}
	switch v := v.(type) {
	case nil:
		return true
	case bool:
		return !v
	case float64:
		return v == 0
	case string:
		return v == ""
	}
	return false
}

// detailsText はdetailsをログ出力用の文字列にする。
func detailsText(details any) string {
	switch d := details.(type) {
	case json.RawMessage:
		return string(d)
	case string:
		return d
	default:
		return fmt.Sprint(d)
	}
}
