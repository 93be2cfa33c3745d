// Package service 包含了应用的业务逻辑层。
package service

import (
	"errors"

	"dialab-go/internal/model"
	"dialab-go/internal/repository"
	"dialab-go/pkg/hash"
	"dialab-go/pkg/log"

	"gorm.io/gorm"
)

// ErrInvalidCredentials 表示认证失败。用户名不存在与密码错误返回同一个错误，
// 调用方无法据此探测某个用户名是否存在。
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService 接口定义了凭证相关的业务操作。
type AuthService interface {
	Authenticate(username, password string) (*model.User, error)
	CreateUser(username, password, role string) (*model.User, error)
}

// authService 是 AuthService 接口的实现。
type authService struct {
	userRepo repository.UserRepository
}

// NewAuthService 创建一个新的 AuthService 实例。
func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

// Authenticate 验证用户名和密码，成功时返回完整的用户记录。
func (s *authService) Authenticate(username, password string) (*model.User, error) {
	// 1. 查找用户
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. 验证密码。存储哈希无法解析时同样返回 false，与密码错误不可区分。
	if !hash.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// CreateUser 为管理侧的开通流程创建新用户。
// 用户名冲突由存储层的唯一索引裁决，返回 repository.ErrDuplicateUsername。
func (s *authService) CreateUser(username, password, role string) (*model.User, error) {
	if username == "" {
		return nil, errors.New("username cannot be empty")
	}
	if password == "" {
		return nil, errors.New("password cannot be empty")
	}
	if role == "" {
		role = model.RoleDefault
	}

	hashedPassword, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	newUser := &model.User{
		Username:     username,
		PasswordHash: hashedPassword,
		Role:         role,
	}
	if err := s.userRepo.Create(newUser); err != nil {
		return nil, err
	}

	log.Infof("User '%s' created with id %d", newUser.Username, newUser.ID)
	return newUser, nil
}
