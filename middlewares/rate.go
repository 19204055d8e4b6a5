// file: middlewares/rate.go
package middlewares

import (
	"fmt"
	"sync"

	"crazy88/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

var limiters sync.Map

// RateLimit 按客户端 IP 限流，套在上传/提交这类重接口上
func RateLimit(r rate.Limit, b int) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		key := fmt.Sprintf("%s|%v|%d", ip, r, b)
		limiter, ok := limiters.Load(key)
		if !ok {
			limiter = rate.NewLimiter(r, b)
			limiters.Store(key, limiter)
		}
		if !limiter.(*rate.Limiter).Allow() {
			utils.Error(c, 4005, "请求过于频繁")
			c.Abort()
			return
		}
		c.Next()
	}
}
