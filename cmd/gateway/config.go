package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/nao1215/zepgate/internal/gateway"
	"github.com/nao1215/zepgate/internal/zep"
)

const (
	programName = "zepgate"
	version     = "v0.1.0"
	defaultPort = "3000"
)

// serveCmd はゲートウェイを起動するサブコマンド。サブコマンド省略時もこれを実行する。
type serveCmd struct{}

// tokenCmd はクライアント用JWTを発行するサブコマンド。
type tokenCmd struct {
	ClientID string        `arg:"positional,required" placeholder:"CLIENT_ID" help:"トークンを発行するクライアントID"`
	TTL      time.Duration `arg:"--ttl" default:"24h" help:"トークンの有効期間"`
}

// optionalDuration は空文字を0として扱う時間間隔。
// .envに値の無い UPSTREAM_TIMEOUT= が残っていても起動できるようにする。
type optionalDuration time.Duration

// UnmarshalText はテキストから時間間隔を読み込む。
func (d *optionalDuration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = optionalDuration(v)
	return nil
}

// args はコマンドライン引数と環境変数から読み込む設定。
// 優先順位はフラグ、環境変数、既定値の順。
type args struct {
	Serve *serveCmd `arg:"subcommand:serve" help:"ゲートウェイを起動する（既定）"`
	Token *tokenCmd `arg:"subcommand:token" help:"クライアント用JWTを発行する"`

	Port            string        `arg:"--port,env:PORT" default:"3000" help:"リッスンポート"`
	APIKey          string        `arg:"--api-key,env:ZEP_API_KEY" help:"ZepのAPIキー"`
	APIURL          string        `arg:"--api-url,env:ZEP_API_URL" default:"https://api.getzep.com" help:"ZepのベースURL"`
	UpstreamTimeout optionalDuration `arg:"--upstream-timeout,env:UPSTREAM_TIMEOUT" help:"Zep呼び出しのタイムアウト（0は無制限）"`
	AllowedOrigins  []string      `arg:"--cors-origin,env:CORS_ALLOWED_ORIGINS" help:"CORSを許可するオリジン"`
	JWTSecret       string        `arg:"--jwt-secret,env:GATEWAY_JWT_SECRET" help:"クライアントJWTのシークレット（空ならクライアント認証なし）"`
}

// Version はバージョン文字列を返す。
func (args) Version() string {
	return fmt.Sprintf("%s %s", programName, version)
}

// parseArgs は引数と環境変数を解析する。
func parseArgs(argv []string) (*args, *arg.Parser, error) {
	var a args
	p, err := arg.NewParser(arg.Config{Program: programName}, &a)
	if err != nil {
		return nil, nil, fmt.Errorf("引数定義が不正: %w", err)
	}
	return &a, p, p.Parse(argv)
}

// gatewayConfig は解析済みの引数からゲートウェイの設定を組み立てる。
func (a *args) gatewayConfig() gateway.Config {
	port := a.Port
	if port == "" {
		port = defaultPort
	}
	baseURL := strings.TrimRight(a.APIURL, "/")
	if baseURL == "" {
		baseURL = zep.DefaultBaseURL
	}

	origins := make([]string, 0, len(a.AllowedOrigins))
	for _, o := range a.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return gateway.Config{
		Port:            port,
		APIKey:          a.APIKey,
		BaseURL:         baseURL,
		UpstreamTimeout: time.Duration(a.UpstreamTimeout),
		AllowedOrigins:  origins,
		JWTSecret:       a.JWTSecret,
	}
}
