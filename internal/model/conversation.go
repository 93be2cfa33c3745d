// Package model 包含了应用的数据模型定义。
package model

import "time"

// ChatMessage 代表一条临时会话消息。会话由表示层持有
// （Redis 或 WebSocket 连接内存），持久的审计记录以 chat_logs 表为准。
type ChatMessage struct {
	Role      string    `json:"role"` // "user" 或 "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
