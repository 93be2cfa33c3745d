// Package model 定义了与数据库表对应的 Go 结构体。
package model

import "time"

// 对话轮次的角色，审计日志只接受这两种。
const (
	TurnRoleUser      = "user"
	TurnRoleAssistant = "assistant"
)

// ChatLog 对应于数据库中的 chat_logs 表。
// 每条记录是一轮对话（用户提问或助手回答），写入后不可修改。
// Token 计数使用指针以接受 NULL 值：用户轮次与失败的调用不产生用量数据。
type ChatLog struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint      `gorm:"index;not null" json:"userId"`
	User         *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Role         string    `gorm:"type:varchar(20);not null" json:"role"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	Model        string    `gorm:"type:varchar(100)" json:"model"`
	InputTokens  *int      `gorm:"column:input_tokens" json:"inputTokens"`
	OutputTokens *int      `gorm:"column:output_tokens" json:"outputTokens"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (ChatLog) TableName() string {
	return "chat_logs"
}
