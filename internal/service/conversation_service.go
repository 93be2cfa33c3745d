// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"

	"dialab-go/internal/model"
	"dialab-go/internal/repository"
)

// ConversationService 定义了表示层会话历史的业务接口。
// HTTP 接口在两次请求之间用它保存会话；审计以 chat_logs 表为准。
type ConversationService interface {
	GetConversationHistory(ctx context.Context, userID uint) ([]model.ChatMessage, error)
	AppendTurns(ctx context.Context, userID uint, messages ...model.ChatMessage) error
	ResetConversation(ctx context.Context, userID uint) error
}

type conversationService struct {
	repo repository.ConversationRepository
}

// NewConversationService 创建一个新的 ConversationService。
func NewConversationService(repo repository.ConversationRepository) ConversationService {
	return &conversationService{repo: repo}
}

// GetConversationHistory 获取用户当前会话的完整消息历史。
func (s *conversationService) GetConversationHistory(ctx context.Context, userID uint) ([]model.ChatMessage, error) {
	conversationID, err := s.repo.GetOrCreateConversationID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetConversationHistory(ctx, conversationID)
}

// AppendTurns 将若干条消息追加到用户的会话历史中。
// 一轮成功的对话会一次追加两条：用户输入与助手回复。
func (s *conversationService) AppendTurns(ctx context.Context, userID uint, messages ...model.ChatMessage) error {
	conversationID, err := s.repo.GetOrCreateConversationID(ctx, userID)
	if err != nil {
		return err
	}
	history, err := s.repo.GetConversationHistory(ctx, conversationID)
	if err != nil {
		return err
	}
	history = append(history, messages...)
	return s.repo.UpdateConversationHistory(ctx, conversationID, history)
}

// ResetConversation 丢弃当前会话，开始全新对话。
func (s *conversationService) ResetConversation(ctx context.Context, userID uint) error {
	return s.repo.ResetConversation(ctx, userID)
}
