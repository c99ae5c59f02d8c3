package events

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// ErrPublisherClosed 发布器已关闭
var ErrPublisherClosed = errors.New("publisher closed")

// Publisher 事件发布接口
type Publisher interface {
	Publish(ctx context.Context, topic, key string, value []byte) error
	Close() error
}

// KafkaPublisher 基于 kafka-go 的发布器，按 topic 复用 writer
type KafkaPublisher struct {
	brokers []string

	mu      sync.Mutex
	writers map[string]*kafka.Writer
	closed  bool
}

// NewKafkaPublisher 创建 Kafka 发布器
func NewKafkaPublisher(brokers []string) *KafkaPublisher {
	cleaned := make([]string, 0, len(brokers))
	for _, b := range brokers {
		if b = strings.TrimSpace(b); b != "" {
			cleaned = append(cleaned, b)
		}
	}
	return &KafkaPublisher{
		brokers: cleaned,
		writers: make(map[string]*kafka.Writer),
	}
}

// Enabled 是否配置了 broker
func (p *KafkaPublisher) Enabled() bool {
	return p != nil && len(p.brokers) > 0
}

func (p *KafkaPublisher) writer(topic string) (*kafka.Writer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrPublisherClosed
	}
	if w, ok := p.writers[topic]; ok {
		return w, nil
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(p.brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	p.writers[topic] = w
	return w, nil
}

// Publish 同步写入一条消息
func (p *KafkaPublisher) Publish(ctx context.Context, topic, key string, value []byte) error {
	if !p.Enabled() {
		return errors.New("kafka brokers not configured")
	}
	w, err := p.writer(topic)
	if err != nil {
		return err
	}
	return w.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: value, Time: time.Now().UTC()})
}

// Close 关闭全部 writer
func (p *KafkaPublisher) Close() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	var errs []error
	for topic, w := range p.writers {
		if err := w.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(p.writers, topic)
	}
	return errors.Join(errs...)
}
