// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"errors"
	"math"

	"dialab-go/internal/model"
	"dialab-go/internal/repository"

	"gorm.io/gorm"
)

// ErrUserNotFound 表示管理侧查询的用户不存在。
var ErrUserNotFound = errors.New("user not found")

// UserListResponse 定义了用户列表 API 的响应结构。
type UserListResponse struct {
	Content       []UserDetailResponse `json:"content"`
	TotalElements int64                `json:"totalElements"`
	TotalPages    int                  `json:"totalPages"`
	Size          int                  `json:"size"`
	Number        int                  `json:"number"`
}

// UserDetailResponse 定义了用户列表项的详细结构。密码哈希绝不外发。
type UserDetailResponse struct {
	UserID    uint            `json:"userId"`
	Username  string          `json:"username"`
	Role      string          `json:"role"`
	CreatedAt model.LocalTime `json:"createdAt"`
}

// AuditEntryResponse 定义了审计轨迹列表项的结构。
type AuditEntryResponse struct {
	ID           uint            `json:"id"`
	Role         string          `json:"role"`
	Content      string          `json:"content"`
	Model        string          `json:"model"`
	InputTokens  *int            `json:"inputTokens"`
	OutputTokens *int            `json:"outputTokens"`
	CreatedAt    model.LocalTime `json:"createdAt"`
}

// AdminService 接口定义了所有管理员相关的业务操作。
type AdminService interface {
	ListUsers(page, size int) (*UserListResponse, error)
	GetUserAuditTrail(ctx context.Context, userID uint) ([]AuditEntryResponse, error)
}

// adminService 是 AdminService 接口的实现。
type adminService struct {
	userRepo    repository.UserRepository
	chatLogRepo repository.ChatLogRepository
}

// NewAdminService 创建一个新的 AdminService 实例。
func NewAdminService(userRepo repository.UserRepository, chatLogRepo repository.ChatLogRepository) AdminService {
	return &adminService{
		userRepo:    userRepo,
		chatLogRepo: chatLogRepo,
	}
}

// ListUsers 分页列出所有用户。
func (s *adminService) ListUsers(page, size int) (*UserListResponse, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 20
	}

	users, total, err := s.userRepo.FindWithPagination(page*size, size)
	if err != nil {
		return nil, err
	}

	content := make([]UserDetailResponse, 0, len(users))
	for _, u := range users {
		content = append(content, UserDetailResponse{
			UserID:    u.ID,
			Username:  u.Username,
			Role:      u.Role,
			CreatedAt: model.LocalTime(u.CreatedAt),
		})
	}

	return &UserListResponse{
		Content:       content,
		TotalElements: total,
		TotalPages:    int(math.Ceil(float64(total) / float64(size))),
		Size:          size,
		Number:        page,
	}, nil
}

// GetUserAuditTrail 返回指定用户的完整审计轨迹（升序）。
func (s *adminService) GetUserAuditTrail(ctx context.Context, userID uint) ([]AuditEntryResponse, error) {
	// 先确认用户存在，避免把“无记录”与“无此用户”混为一谈
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	entries, err := s.chatLogRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		result = append(result, AuditEntryResponse{
			ID:           e.ID,
			Role:         e.Role,
			Content:      e.Content,
			Model:        e.Model,
			InputTokens:  e.InputTokens,
			OutputTokens: e.OutputTokens,
			CreatedAt:    model.LocalTime(e.CreatedAt),
		})
	}
	return result, nil
}
