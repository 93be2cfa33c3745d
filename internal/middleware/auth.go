// Package middleware 提供了处理 HTTP 请求的中间件。
package middleware

import (
	"errors"
	"net/http"

	"dialab-go/internal/service"
	"dialab-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 创建一个 Gin 中间件，对每个请求做 Basic 凭证校验。
// 本服务不签发会话令牌，会话生命周期由宿主环境负责，
// 因此受保护的路由在每次请求时都重新验证用户名和密码，
// 并将完整的 User 对象存入 Gin 的上下文中。
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", `Basic realm="dialab"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "请求未包含 Basic 授权头"})
			return
		}

		user, err := authService.Authenticate(username, password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				// 用户名不存在与密码错误返回同一响应
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "用户名或密码不正确"})
				return
			}
			log.Errorf("AuthMiddleware: authentication backend error: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "认证服务不可用"})
			return
		}

		// 将完整的 User 对象存储在 context 中，供后续处理函数使用
		c.Set("user", user)

		// 继续处理请求链中的下一个处理器
		c.Next()
	}
}
