package gateway

import (
	"fmt"
	"net/url"
	"time"
)

// Config はゲートウェイの設定。起動時に一度だけ構築され、以後変更されない。
type Config struct {
	// Port はサーバーのリッスンポート。
	Port string
	// APIKey は外部APIの認証に使うBearerトークン。空の場合、転送ルートは500を返す。
	APIKey string
	// BaseURL は外部APIのベースURL。
	BaseURL string
	// UpstreamTimeout は外部API呼び出しのタイムアウト。0の場合はタイムアウトしない。
	UpstreamTimeout time.Duration
	// AllowedOrigins はCORSを許可するオリジン。
	AllowedOrigins []string
	// JWTSecret はクライアントトークンの検証に使うシークレット。空の場合はクライアント認証を行わない。
	JWTSecret string
}

// APIKeyConfigured は外部APIのキーが設定されているかを返す。
func (c Config) APIKeyConfigured() bool {
	return c.APIKey != ""
}

// validate は設定値を検証する。
func (c Config) validate() error {
	if c.Port == "" {
		return fmt.Errorf("ポートが指定されていません")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("外部APIのURLが不正です: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("外部APIのURLが不正です: %q", c.BaseURL)
	}
	if c.UpstreamTimeout < 0 {
		return fmt.Errorf("タイムアウトに負の値は指定できません: %s", c.UpstreamTimeout)
	}
	return nil
}
