// Package repository 定义了与数据库进行数据交换的接口和实现。
package repository

import (
	"context"
	"errors"

	"dialab-go/internal/model"

	"gorm.io/gorm"
)

var (
	// ErrInvalidRole 表示轮次角色不是 "user" 或 "assistant"。
	// 这是调用方的契约错误，不是用户可见的状态。
	ErrInvalidRole = errors.New("invalid chat log role")

	// ErrForeignKeyViolation 表示 user_id 未引用任何已存在的用户。
	// 由 chat_logs 表的外键约束裁决。
	ErrForeignKeyViolation = errors.New("chat log references unknown user")

	// ErrInvalidTokenCount 表示 token 计数为负数。
	ErrInvalidTokenCount = errors.New("token count must be non-negative")
)

// ChatLogRepository 是追加式审计日志的持久化接口。
// Append 是唯一的写操作：没有更新、删除或重排。
type ChatLogRepository interface {
	Append(ctx context.Context, userID uint, role, content, modelName string, inputTokens, outputTokens *int) error
	ListByUser(ctx context.Context, userID uint) ([]model.ChatLog, error)
}

// chatLogRepository 是 ChatLogRepository 接口的 GORM 实现。
type chatLogRepository struct {
	db *gorm.DB
}

// NewChatLogRepository 创建一个新的 ChatLogRepository 实例。
func NewChatLogRepository(db *gorm.DB) ChatLogRepository {
	return &chatLogRepository{db: db}
}

// Append 向审计日志追加一条轮次记录。单行插入，原子完成。
func (r *chatLogRepository) Append(ctx context.Context, userID uint, role, content, modelName string, inputTokens, outputTokens *int) error {
	if role != model.TurnRoleUser && role != model.TurnRoleAssistant {
		return ErrInvalidRole
	}
	if (inputTokens != nil && *inputTokens < 0) || (outputTokens != nil && *outputTokens < 0) {
		return ErrInvalidTokenCount
	}

	entry := model.ChatLog{
		UserID:       userID,
		Role:         role,
		Content:      content,
		Model:        modelName,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
	}
	err := r.db.WithContext(ctx).Create(&entry).Error
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ErrForeignKeyViolation
	}
	return err
}

// ListByUser 返回某个用户的完整审计轨迹，按创建时间升序，
// 时间相同时按 ID 分配顺序决定先后。
func (r *chatLogRepository) ListByUser(ctx context.Context, userID uint) ([]model.ChatLog, error) {
	var entries []model.ChatLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc, id asc").
		Find(&entries).Error
	return entries, err
}
