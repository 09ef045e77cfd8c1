package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// tokenIssuer はゲートウェイが発行するクライアントトークンのiss。
const tokenIssuer = "zepgate"

// contextKeyClientID は認証済みクライアントIDをGinコンテキストに格納するためのキー。
const contextKeyClientID = "client_id"

// ClientClaims はゲートウェイが発行するクライアントトークンのクレーム。
type ClientClaims struct {
	jwt.RegisteredClaims
	// ClientID はトークンを発行されたクライアントの識別子。
	ClientID string `json:"client_id"`
}

// GenerateJWT はクライアントIDからHS256署名のJWTトークンを生成する。
func GenerateJWT(secret, clientID string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("JWT署名用のシークレットが空です")
	}
	now := time.Now()
	claims := ClientClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   clientID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
		ClientID: clientID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("JWTトークンの署名に失敗: %w", err)
	}
	return signed, nil
}

// JWTAuth はクライアントトークンを検証するGinミドルウェアを返す。
// secretが空の場合は何も検証しない。
// 検証に成功した場合、コンテキストに "client_id" を設定する。
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header is required",
			})
			return
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid bearer token format",
			})
			return
		}

		claims := &ClientClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
			return []byte(secret), nil
		},
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(tokenIssuer),
		)
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid token",
			})
			return
		}

		c.Set(contextKeyClientID, claims.ClientID)
		c.Next()
	}
}

// GetClientID はGinコンテキストから認証済みクライアントIDを取得する。
// 認証が無効な場合は空文字を返す。
func GetClientID(c *gin.Context) string {
	return c.GetString(contextKeyClientID)
}
