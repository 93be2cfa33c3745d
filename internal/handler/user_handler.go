// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"net/http"

	"dialab-go/internal/model"
	"dialab-go/internal/service"
	"dialab-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// UserHandler 负责处理与当前登录用户相关的 API 请求。
type UserHandler struct {
	chatService service.ChatService
}

// NewUserHandler 创建一个新的 UserHandler 实例。
func NewUserHandler(chatService service.ChatService) *UserHandler {
	return &UserHandler{chatService: chatService}
}

// currentUser 从上下文中取出 AuthMiddleware 注入的 User 对象。
func currentUser(c *gin.Context) (*model.User, bool) {
	userValue, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法获取用户信息"})
		return nil, false
	}
	user, ok := userValue.(*model.User)
	if !ok || user == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "用户数据类型错误"})
		return nil, false
	}
	return user, true
}

// GetProfile 获取当前登录用户的个人信息。
// 用户信息已经由 AuthMiddleware 注入到上下文中。
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "data": user, "message": "success"})
}

// GetOwnAuditTrail 返回当前用户自己的审计轨迹（升序）。
func (h *UserHandler) GetOwnAuditTrail(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	entries, err := h.chatService.ListAuditEntries(c.Request.Context(), user.ID)
	if err != nil {
		log.Error("GetOwnAuditTrail: failed to list audit entries", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "获取审计记录失败",
			"data":    nil,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": entries})
}
