package models

import (
	"time"
)

// OutboxEvent 事务外发事件表，与业务写入同事务落库，由 relay 异步投递
type OutboxEvent struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	EventID   string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"event_id"`
	EventType string     `gorm:"type:varchar(64);not null" json:"event_type"`
	Topic     string     `gorm:"type:varchar(128);not null;index" json:"topic"`
	EventKey  string     `gorm:"type:varchar(128);not null" json:"event_key"`
	Payload   JSON       `gorm:"type:json" json:"payload"`
	Attempts  int        `gorm:"not null;default:0" json:"attempts"`
	LastError string     `gorm:"type:varchar(1000);default:''" json:"last_error"`
	SentAt    *time.Time `gorm:"index" json:"sent_at"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (OutboxEvent) TableName() string {
	return "outbox_events"
}
