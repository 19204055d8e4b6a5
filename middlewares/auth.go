// file: middlewares/auth.go
package middlewares

import (
	"crazy88/models"
	"crazy88/utils"
	"github.com/gin-gonic/gin"
	"net/http"
	"strings"
)

// JWTAuthMiddleware 验证请求方是否登录
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.Request.Header.Get("Authorization")
		if authHeader == "" {
			utils.Error(c, 4001, "请求头中 Authorization 为空")
			c.Abort()
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			utils.Error(c, 4002, "Authorization 格式有误")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(parts[1])
		if err != nil {
			utils.Error(c, 4003, "无效的 Token")
			c.Abort()
			return
		}
		c.Set("user_id", claims.UserID)
		c.Set("team_id", claims.TeamID)
		c.Set("session_id", claims.SessionID)
		c.Set("username", claims.Username)
		c.Set("user_role", claims.Role)
		c.Next()
	}
}

// RoleAuthMiddleware 验证角色权限；jury 拥有所有权限
func RoleAuthMiddleware(requiredRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleAny, exists := c.Get("user_role")
		if !exists {
			utils.Error(c, 5001, "无法获取用户角色信息")
			c.Abort()
			return
		}

		role := roleAny.(models.UserRole)

		hasPermission := false
		for _, requiredRole := range requiredRoles {
			if role == requiredRole {
				hasPermission = true
				break
			}
		}

		// jury 拥有所有权限
		if role == models.RoleJury {
			hasPermission = true
		}

		if !hasPermission {
			c.JSON(http.StatusForbidden, gin.H{"code": 4003, "msg": "权限不足"})
			c.Abort()
			return
		}
		c.Next()
	}
}
