// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dialab-go/internal/config"
	"dialab-go/internal/model"
	"dialab-go/internal/repository"
	"dialab-go/pkg/kafka"
	"dialab-go/pkg/llm"
	"dialab-go/pkg/log"
)

// ErrCompletionFailed 表示补全服务调用失败或返回了无法解析的结果。
// 交互级别可恢复：用户可以重试同一条消息。
var ErrCompletionFailed = errors.New("completion request failed")

// defaultSystemPrompt 在配置未提供 system_prompt 时使用。
const defaultSystemPrompt = "You are a helpful assistant for a research laboratory."

// ConverseResult 是一轮对话的结果：助手回复文本与可选的 token 用量。
type ConverseResult struct {
	Content      string
	InputTokens  *int
	OutputTokens *int
}

// ChatService 定义了对话编排的接口。
// Converse 自身无状态，不同用户可以并发调用；同一用户的并发调用
// 之间不保证先后顺序，审计顺序由存储层的时间戳和 ID 决定。
type ChatService interface {
	Converse(ctx context.Context, user *model.User, history []model.ChatMessage, prompt, modelName string) (*ConverseResult, error)
	ListAuditEntries(ctx context.Context, userID uint) ([]model.ChatLog, error)
}

type chatService struct {
	llmClient   llm.Client
	chatLogRepo repository.ChatLogRepository
}

// NewChatService 创建一个新的 ChatService 实例。
func NewChatService(llmClient llm.Client, chatLogRepo repository.ChatLogRepository) ChatService {
	return &chatService{
		llmClient:   llmClient,
		chatLogRepo: chatLogRepo,
	}
}

// Converse 执行一轮完整的对话：先落审计，再调补全服务，最后落助手轮次。
// 顺序是硬性约定：用户轮次写入先于补全调用，即使中途崩溃，
// 审计里也留有用户问了什么。
func (s *chatService) Converse(ctx context.Context, user *model.User, history []model.ChatMessage, prompt, modelName string) (*ConverseResult, error) {
	// 1. 先记录用户轮次，token 留空（用户输入没有用量数据）
	if err := s.chatLogRepo.Append(ctx, user.ID, model.TurnRoleUser, prompt, modelName, nil, nil); err != nil {
		return nil, fmt.Errorf("failed to record user turn: %w", err)
	}
	s.publishAuditEvent(user, model.TurnRoleUser, prompt, modelName, nil, nil)

	// 2. 组装消息序列：system 指令 + 调用方持有的历史 + 本轮输入
	messages := s.composeMessages(history, prompt)

	// 3. 同步调用补全服务，单次调用，失败不重试
	completion, err := s.llmClient.ChatCompletion(ctx, modelName, messages)
	if err != nil {
		// 失败路径不写助手轮次，审计里留下一条未应答的用户轮次
		log.Errorf("completion call failed for user '%s': %v", user.Username, err)
		return nil, fmt.Errorf("%w: %v", ErrCompletionFailed, err)
	}

	// 4. 记录助手轮次，带上服务端报告的用量（可能缺失）
	var inputTokens, outputTokens *int
	if completion.Usage != nil {
		in, out := completion.Usage.InputTokens, completion.Usage.OutputTokens
		inputTokens, outputTokens = &in, &out
	}
	if err := s.chatLogRepo.Append(ctx, user.ID, model.TurnRoleAssistant, completion.Content, modelName, inputTokens, outputTokens); err != nil {
		return nil, fmt.Errorf("failed to record assistant turn: %w", err)
	}
	s.publishAuditEvent(user, model.TurnRoleAssistant, completion.Content, modelName, inputTokens, outputTokens)

	return &ConverseResult{
		Content:      completion.Content,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
	}, nil
}

// ListAuditEntries 返回某个用户的完整审计轨迹，供审计与排障工具使用。
func (s *chatService) ListAuditEntries(ctx context.Context, userID uint) ([]model.ChatLog, error) {
	return s.chatLogRepo.ListByUser(ctx, userID)
}

// composeMessages 把 system 指令、历史和本轮输入拼成出站消息序列。
func (s *chatService) composeMessages(history []model.ChatMessage, prompt string) []llm.Message {
	systemPrompt := config.Conf.LLM.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}

	msgs := make([]llm.Message, 0, len(history)+2)
	msgs = append(msgs, llm.Message{Role: "system", Content: systemPrompt})
	for _, m := range history {
		msgs = append(msgs, llm.Message{Role: m.Role, Content: m.Content})
	}
	msgs = append(msgs, llm.Message{Role: model.TurnRoleUser, Content: prompt})
	return msgs
}

// publishAuditEvent 把审计记录同步发到 Kafka（若启用）。
// 发送失败只记日志：数据库里的审计才是权威记录。
func (s *chatService) publishAuditEvent(user *model.User, role, content, modelName string, inputTokens, outputTokens *int) {
	if !kafka.Enabled() {
		return
	}
	event := kafka.AuditEvent{
		UserID:       user.ID,
		Username:     user.Username,
		Role:         role,
		Content:      content,
		Model:        modelName,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		LoggedAt:     time.Now().UnixMilli(),
	}
	if err := kafka.PublishAuditEvent(event); err != nil {
		log.Warnf("failed to publish audit event for user '%s': %v", user.Username, err)
	}
}
