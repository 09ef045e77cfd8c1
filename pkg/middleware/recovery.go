package middleware

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// contextKeyAction はルートの操作名をGinコンテキストに格納するためのキー。
const contextKeyAction = "action"

// Action はルートの操作名（"Search" 等）をコンテキストに設定するGinミドルウェアを返す。
// Recoveryはこの操作名を使ってエラーレスポンスを組み立てる。
func Action(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextKeyAction, name)
		c.Next()
	}
}

// GetAction はGinコンテキストから操作名を取得する。
func GetAction(c *gin.Context) string {
	return c.GetString(contextKeyAction)
}

// Recovery はパニックからの回復を行うGinミドルウェアを返す。
// 操作名が設定されたルートでは {"error":"<操作名> failed","details":...} を、
// それ以外では {"error":"internal server error"} を500で返す。
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[PANIC] %s %s: %v", c.Request.Method, c.Request.URL.Path, r)
				if action := GetAction(c); action != "" {
					c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
						"error":   action + " failed",
						"details": fmt.Sprint(r),
					})
					return
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "internal server error",
				})
			}
		}()
		c.Next()
	}
}
