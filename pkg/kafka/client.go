// Package kafka 提供了与 Kafka 消息队列交互的功能。
// 这里只有生产者：每条审计记录落库后同时发到 Kafka，供下游合规工具消费。
// 消息发送是尽力而为，失败不影响对话流程，审计仍以数据库为准。
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"dialab-go/internal/config"
	"dialab-go/pkg/log"

	"github.com/segmentio/kafka-go"
)

// AuditEvent 是发布到 Kafka 的单轮对话审计事件。
type AuditEvent struct {
	UserID       uint   `json:"user_id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	Content      string `json:"content"`
	Model        string `json:"model"`
	InputTokens  *int   `json:"input_tokens"`
	OutputTokens *int   `json:"output_tokens"`
	LoggedAt     int64  `json:"logged_at"`
}

var producer *kafka.Writer

// InitProducer 初始化 Kafka 生产者。brokers 为空时跳过，PublishAuditEvent 变为空操作。
func InitProducer(cfg config.KafkaConfig) {
	if cfg.Brokers == "" {
		log.Info("Kafka brokers 未配置，审计事件流已禁用")
		return
	}
	producer = &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	}
	log.Infof("Kafka 生产者初始化成功，审计事件将发布到主题 '%s'", cfg.Topic)
}

// Enabled 报告审计事件流是否已启用。
func Enabled() bool {
	return producer != nil
}

// PublishAuditEvent 发送一条审计事件到 Kafka。
func PublishAuditEvent(event AuditEvent) error {
	if producer == nil {
		return nil
	}
	if event.LoggedAt == 0 {
		event.LoggedAt = time.Now().UnixMilli()
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return producer.WriteMessages(context.Background(),
		kafka.Message{
			Key:   []byte(event.Username),
			Value: eventBytes,
		},
	)
}

// Close 关闭生产者，在服务停机时调用。
func Close() {
	if producer == nil {
		return
	}
	if err := producer.Close(); err != nil {
		log.Errorf("关闭 Kafka 生产者失败: %v", err)
	}
}
