// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"net/http"
	"time"

	"dialab-go/internal/config"
	"dialab-go/internal/model"
	"dialab-go/internal/service"
	"dialab-go/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许所有来源
	},
}

// ChatHandler 负责处理对话请求：REST 接口与 WebSocket 接口。
// REST 接口的会话历史保存在 Redis；WebSocket 连接自身就是一次会话，
// 历史保存在连接内存中，连接断开即消失。两者的审计都落在 chat_logs 表。
type ChatHandler struct {
	chatService         service.ChatService
	conversationService service.ConversationService
}

// NewChatHandler 创建一个新的 ChatHandler。
func NewChatHandler(chatService service.ChatService, conversationService service.ConversationService) *ChatHandler {
	return &ChatHandler{
		chatService:         chatService,
		conversationService: conversationService,
	}
}

// ChatRequest 定义了对话 API 的请求体结构。
type ChatRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// Chat 处理一轮 REST 对话：取出 Redis 中的会话历史，执行编排，
// 成功后把这一轮的两条消息追加回会话。
func (h *ChatHandler) Chat(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Chat: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "无效的请求负载：prompt 不能为空",
		})
		return
	}

	history, err := h.conversationService.GetConversationHistory(c.Request.Context(), user.ID)
	if err != nil {
		log.Error("Chat: failed to load conversation history", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "无法加载会话历史",
		})
		return
	}

	result, err := h.chatService.Converse(c.Request.Context(), user, history, req.Prompt, config.Conf.LLM.Model)
	if err != nil {
		if errors.Is(err, service.ErrCompletionFailed) {
			// 用户轮次已落审计；回复生成失败，可重试同一条消息
			log.Errorf("Chat: completion failed for user '%s': %v", user.Username, err)
			c.JSON(http.StatusBadGateway, gin.H{
				"code":    http.StatusBadGateway,
				"message": "AI服务暂时不可用，请稍后重试",
			})
			return
		}
		log.Error("Chat: converse failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "对话处理失败",
		})
		return
	}

	now := time.Now()
	if err := h.conversationService.AppendTurns(c.Request.Context(), user.ID,
		model.ChatMessage{Role: model.TurnRoleUser, Content: req.Prompt, Timestamp: now},
		model.ChatMessage{Role: model.TurnRoleAssistant, Content: result.Content, Timestamp: now},
	); err != nil {
		// 会话只是表示层状态，保存失败不影响本轮结果，审计已经落库
		log.Warnf("Chat: failed to save conversation history for user '%s': %v", user.Username, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data": gin.H{
			"content":      result.Content,
			"inputTokens":  result.InputTokens,
			"outputTokens": result.OutputTokens,
		},
	})
}

// wsReply 是 WebSocket 接口的出站消息格式。
type wsReply struct {
	Type         string `json:"type"` // "message" 或 "error"
	Content      string `json:"content,omitempty"`
	Message      string `json:"message,omitempty"`
	InputTokens  *int   `json:"inputTokens,omitempty"`
	OutputTokens *int   `json:"outputTokens,omitempty"`
	Timestamp    int64  `json:"timestamp"`
}

// HandleWS 处理一个传入的 WebSocket 连接。
// 认证已由 AuthMiddleware 在升级前完成；连接存续期间的会话历史
// 保存在本地变量中，与原表示层的交互式会话语义一致。
func (h *ChatHandler) HandleWS(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket 升级失败", err)
		return
	}
	defer conn.Close()

	log.Infof("WebSocket 连接已建立，用户: %s", user.Username)

	var history []model.ChatMessage
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			log.Warnf("从 WebSocket 读取消息失败: %v", err)
			break
		}
		prompt := string(message)
		if prompt == "" {
			continue
		}

		result, err := h.chatService.Converse(c.Request.Context(), user, history, prompt, config.Conf.LLM.Model)
		if err != nil {
			log.Errorf("处理对话失败: %v", err)
			reply := wsReply{
				Type:      "error",
				Message:   "AI服务暂时不可用，请稍后重试",
				Timestamp: time.Now().UnixMilli(),
			}
			if writeErr := conn.WriteJSON(reply); writeErr != nil {
				log.Warnf("向 WebSocket 写入错误消息失败: %v", writeErr)
				break
			}
			// 交互级别可恢复：保留历史，等待用户重试
			continue
		}

		now := time.Now()
		history = append(history,
			model.ChatMessage{Role: model.TurnRoleUser, Content: prompt, Timestamp: now},
			model.ChatMessage{Role: model.TurnRoleAssistant, Content: result.Content, Timestamp: now},
		)

		reply := wsReply{
			Type:         "message",
			Content:      result.Content,
			InputTokens:  result.InputTokens,
			OutputTokens: result.OutputTokens,
			Timestamp:    now.UnixMilli(),
		}
		if err := conn.WriteJSON(reply); err != nil {
			log.Warnf("向 WebSocket 写入消息失败: %v", err)
			break
		}
	}
}
