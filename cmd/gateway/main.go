// ゲートウェイサービスのエントリポイント。
// セッションメモリAPI（Zep）への検索・保存・取得リクエストを、
// サーバー側で保持するAPIキーを付与して転送する。
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/joho/godotenv"
	"github.com/nao1215/zepgate/internal/gateway"
	"github.com/nao1215/zepgate/pkg/middleware"
)

func main() {
	// .envは任意。存在しなければ環境変数だけを使う
	_ = godotenv.Load()

	a, p, err := parseArgs(os.Args[1:])
	switch {
	case errors.Is(err, arg.ErrHelp):
		p.WriteHelp(os.Stdout)
		os.Exit(0)
	case errors.Is(err, arg.ErrVersion):
		fmt.Println(a.Version())
		os.Exit(0)
	case err != nil:
		if p != nil {
			p.Fail(err.Error())
		}
		log.Fatalf("引数の解析に失敗: %v", err)
	}

	if a.Token != nil {
		if err := runToken(a, os.Stdout); err != nil {
			log.Fatalf("トークンの発行に失敗: %v", err)
		}
		return
	}

	server, err := gateway.NewServer(a.gatewayConfig())
	if err != nil {
		log.Fatalf("ゲートウェイの初期化に失敗: %v", err)
	}

	server.LogStartup()
	if err := server.Run(); err != nil {
		log.Fatalf("ゲートウェイの起動に失敗: %v", err)
	}
}

// runToken はクライアント用JWTを発行してwに出力する。
func runToken(a *args, w io.Writer) error {
	if a.JWTSecret == "" {
		return errors.New("GATEWAY_JWT_SECRETが設定されていません")
	}
	token, err := middleware.GenerateJWT(a.JWTSecret, a.Token.ClientID, a.Token.TTL)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, token)
	return err
}
