// Package mq 发布领域事件到 Kafka
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Envelope 事件外层结构
type Envelope struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

type Producer struct {
	w     messageWriter
	topic string
	log   *zap.Logger
}

func NewProducer(brokers []string, topic string, l *zap.Logger) *Producer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{}, // 同 key 同分区
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
		MaxAttempts:            3,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           5 * time.Second,
		// 异步写：WriteMessages 只入队，投递结果在 Completion 里记录
		Async:      true,
		Completion: completion(topic, l),
	}
	l.Info("kafka producer created", zap.Strings("brokers", brokers), zap.String("topic", topic))
	return &Producer{w: w, topic: topic, log: l}
}

// Publish 以 key 分区，value 包一层 Envelope
func (p *Producer) Publish(ctx context.Context, eventType, key string, payload any) error {
	data, err := json.Marshal(Envelope{Type: eventType, OccurredAt: time.Now().UTC(), Payload: payload})
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	msg := kafka.Message{
		Key:     []byte(key),
		Value:   data,
		Headers: []kafka.Header{{Key: "type", Value: []byte(eventType)}},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		p.log.Error("kafka publish failed",
			zap.String("topic", p.topic), zap.String("type", eventType), zap.String("key", key), zap.Error(err))
		return err
	}
	p.log.Debug("kafka event published", zap.String("type", eventType), zap.String("key", key))
	return nil
}

func completion(topic string, l *zap.Logger) func([]kafka.Message, error) {
	return func(msgs []kafka.Message, err error) {
		if err == nil {
			return
		}
		for _, m := range msgs {
			l.Error("kafka delivery failed",
				zap.String("topic", topic), zap.ByteString("key", m.Key), zap.Error(err))
		}
	}
}

func (p *Producer) Close() error { return p.w.Close() }

// Nop 未配置 broker 时使用
type Nop struct{}

func (Nop) Publish(context.Context, string, string, any) error { return nil }
func (Nop) Close() error                                       { return nil }
