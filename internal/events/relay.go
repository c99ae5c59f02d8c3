package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ecofinds/internal/config"
	"github.com/ecofinds/internal/logger"
	"github.com/ecofinds/internal/metrics"
	"github.com/ecofinds/internal/repository"
)

const (
	defaultRelayInterval  = time.Second
	defaultRelayBatchSize = 100
	defaultMaxAttempts    = 10
	publishTimeout        = 5 * time.Second
)

// Relay 轮询 outbox 表并投递事件
type Relay struct {
	repo        repository.OutboxRepository
	publisher   Publisher
	metrics     *metrics.Metrics
	interval    time.Duration
	batchSize   int
	maxAttempts int
}

// NewRelay 创建 relay
func NewRelay(cfg config.EventsConfig, repo repository.OutboxRepository, publisher Publisher, m *metrics.Metrics) *Relay {
	r := &Relay{
		repo:        repo,
		publisher:   publisher,
		metrics:     m,
		interval:    time.Duration(cfg.RelayIntervalMillis) * time.Millisecond,
		batchSize:   cfg.RelayBatchSize,
		maxAttempts: cfg.MaxAttempts,
	}
	if r.interval <= 0 {
		r.interval = defaultRelayInterval
	}
	if r.batchSize <= 0 {
		r.batchSize = defaultRelayBatchSize
	}
	if r.maxAttempts <= 0 {
		r.maxAttempts = defaultMaxAttempts
	}
	return r
}

// Name 服务名称
func (r *Relay) Name() string {
	return "outbox-relay"
}

// Start 启动轮询，ctx 取消后返回
func (r *Relay) Start(ctx context.Context) error {
	if r == nil || r.repo == nil || r.publisher == nil {
		return errors.New("relay not initialized")
	}
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		if _, err := r.RunOnce(ctx); err != nil && ctx.Err() == nil {
			logger.Warnw("outbox_relay_run_failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Stop 关闭发布器
func (r *Relay) Stop(_ context.Context) error {
	if r == nil || r.publisher == nil {
		return nil
	}
	return r.publisher.Close()
}

// RunOnce 投递一批待发送事件，返回成功数量
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	pending, err := r.repo.FetchPending(r.batchSize, r.maxAttempts)
	if err != nil {
		return 0, err
	}
	sent, failed := 0, 0
	for _, event := range pending {
		if ctx.Err() != nil {
			break
		}
		value, err := json.Marshal(event.Payload)
		if err != nil {
			failed++
			_ = r.repo.MarkFailed(event.ID, err.Error())
			continue
		}
		pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		err = r.publisher.Publish(pubCtx, event.Topic, event.EventKey, value)
		cancel()
		if err != nil {
			failed++
			logger.Warnw("outbox_publish_failed",
				"event_id", event.EventID,
				"topic", event.Topic,
				"attempts", event.Attempts+1,
				"error", err,
			)
			if markErr := r.repo.MarkFailed(event.ID, err.Error()); markErr != nil {
				return sent, markErr
			}
			continue
		}
		if err := r.repo.MarkSent(event.ID, time.Now()); err != nil {
			return sent, err
		}
		sent++
	}
	r.metrics.ObserveOutbox("sent", sent)
	r.metrics.ObserveOutbox("failed", failed)
	if count, err := r.repo.CountPending(); err == nil {
		r.metrics.SetOutboxPending(count)
	}
	if sent > 0 {
		logger.Debugw("outbox_relay_published", "count", sent)
	}
	return sent, nil
}
