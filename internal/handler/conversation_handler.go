// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"net/http"

	"dialab-go/internal/service"
	"dialab-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// ConversationHandler 处理与当前会话相关的 API 请求。
// 会话只是表示层状态，删除它不影响审计记录。
type ConversationHandler struct {
	service service.ConversationService
}

// NewConversationHandler 创建一个新的 ConversationHandler。
func NewConversationHandler(service service.ConversationService) *ConversationHandler {
	return &ConversationHandler{service: service}
}

// GetHistory 处理获取用户当前会话历史的请求。
func (h *ConversationHandler) GetHistory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	history, err := h.service.GetConversationHistory(c.Request.Context(), user.ID)
	if err != nil {
		log.Error("GetHistory: failed to retrieve conversation history", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "Failed to retrieve conversation history",
			"data":    nil,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    history,
	})
}

// ResetHistory 丢弃当前会话，下一条消息将开始全新对话。
func (h *ConversationHandler) ResetHistory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.service.ResetConversation(c.Request.Context(), user.ID); err != nil {
		log.Error("ResetHistory: failed to reset conversation", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "Failed to reset conversation",
			"data":    nil,
		})
		return
	}

	log.Infof("User '%s' started a fresh conversation", user.Username)
	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    nil,
	})
}
