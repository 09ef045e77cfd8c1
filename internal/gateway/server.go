package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/zepgate/internal/zep"
	"github.com/nao1215/zepgate/pkg/middleware"
)

// memoryAPI は外部のセッションメモリAPI。
type memoryAPI interface {
	Search(ctx context.Context, sessionID, query string) ([]byte, error)
	AddMemory(ctx context.Context, sessionID string, messages []json.RawMessage) ([]byte, error)
	GetMemory(ctx context.Context, sessionID string) ([]byte, error)
}

// Server はゲートウェイサービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// config は起動時に確定した設定。
	config Config
	// memory は転送先のセッションメモリAPI。
	memory memoryAPI
}

// NewServer は新しいゲートウェイサーバーを生成する。
func NewServer(cfg Config) (*Server, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	router := gin.New()
	// リダイレクトはHTMLを返すため無効にし、NoRouteのJSONで404を返す
	router.RedirectTrailingSlash = false
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(gin.Logger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	s := &Server{
		router: router,
		config: cfg,
		memory: zep.NewClient(cfg.BaseURL, cfg.APIKey, cfg.UpstreamTimeout),
	}
	s.setupRoutes()

	return s, nil
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.config.Port))
}

// ServeHTTP はhttp.Handlerを実装する。
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	// 稼働確認（認証不要）
	s.router.GET("/", s.handleIndex())

	// 外部APIへの転送ルート
	forward := s.router.Group("/")
	forward.Use(middleware.JWTAuth(s.config.JWTSecret))
	{
		forward.POST("/search", middleware.Action("Search"), s.handleSearch())
		forward.POST("/store", middleware.Action("Store"), s.handleStore())
		forward.GET("/retrieve/:sessionId", middleware.Action("Retrieve"), s.handleRetrieve())
	}

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}

// LogStartup は起動時の設定をログに出力する。APIキーの値は出力しない。
func (s *Server) LogStartup() {
	configured := "No"
	if s.config.APIKeyConfigured() {
		configured = "Yes"
	}
	log.Printf("Server running on port %s", s.config.Port)
	log.Printf("Zep API URL: %s", s.config.BaseURL)
	log.Printf("API Key configured: %s", configured)
	if s.config.JWTSecret != "" {
		log.Printf("クライアント認証: 有効")
	}
}
