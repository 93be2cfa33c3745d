// Package model 包含了应用的数据模型定义。
package model

import "time"

// User 对应于数据库中的 users 表，保存登录凭证与角色标签。
// 用户由 createuser 命令行工具创建，核心逻辑只读不改。
type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null;column:password_hash" json:"-"`
	Role         string    `gorm:"type:varchar(50);not null;default:user" json:"role"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (User) TableName() string {
	return "users"
}

// RoleDefault 是新用户的默认角色标签。admin 角色可访问审计接口。
const (
	RoleDefault = "user"
	RoleAdmin   = "admin"
)
