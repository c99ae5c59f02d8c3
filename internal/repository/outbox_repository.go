package repository

import (
	"time"

	"github.com/ecofinds/internal/models"

	"gorm.io/gorm"
)

// OutboxRepository 事务外发事件数据访问接口
type OutboxRepository interface {
	Insert(events []models.OutboxEvent) error
	FetchPending(limit, maxAttempts int) ([]models.OutboxEvent, error)
	MarkSent(id uint, at time.Time) error
	MarkFailed(id uint, reason string) error
	CountPending() (int64, error)
	WithTx(tx *gorm.DB) *GormOutboxRepository
}

// GormOutboxRepository GORM 实现
type GormOutboxRepository struct {
	db *gorm.DB
}

// NewOutboxRepository 创建 outbox 仓库
func NewOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOutboxRepository) WithTx(tx *gorm.DB) *GormOutboxRepository {
	if tx == nil {
		return r
	}
	return &GormOutboxRepository{db: tx}
}

// Insert 写入事件
func (r *GormOutboxRepository) Insert(events []models.OutboxEvent) error {
	if len(events) == 0 {
		return nil
	}
	return r.db.Create(&events).Error
}

// FetchPending 按写入顺序取未投递事件
func (r *GormOutboxRepository) FetchPending(limit, maxAttempts int) ([]models.OutboxEvent, error) {
	query := r.db.Where("sent_at IS NULL")
	if maxAttempts > 0 {
		query = query.Where("attempts < ?", maxAttempts)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	events := make([]models.OutboxEvent, 0)
	if err := query.Order("id ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// MarkSent 标记已投递
func (r *GormOutboxRepository) MarkSent(id uint, at time.Time) error {
	return r.db.Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"sent_at": at, "last_error": ""}).Error
}

// MarkFailed 记录投递失败
func (r *GormOutboxRepository) MarkFailed(id uint, reason string) error {
	if len(reason) > 1000 {
		reason = reason[:1000]
	}
	return r.db.Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + ?", 1),
			"last_error": reason,
		}).Error
}

// CountPending 统计未投递事件
func (r *GormOutboxRepository) CountPending() (int64, error) {
	var count int64
	if err := r.db.Model(&models.OutboxEvent{}).Where("sent_at IS NULL").Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
