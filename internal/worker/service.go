package worker

import (
	"context"
	"errors"

	"github.com/ecofinds/internal/config"
	"github.com/ecofinds/internal/queue"

	"github.com/hibiken/asynq"
)

// Service 消费异步任务的 Worker 进程
type Service struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewService 创建 Worker；队列未启用时返回错误
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	switch {
	case cfg == nil || !cfg.Enabled:
		return nil, errors.New("queue disabled")
	case consumer == nil:
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{server: asynq.NewServer(opt, serverCfg), mux: mux}, nil
}

func (s *Service) Name() string { return "worker" }

// Start 阻塞运行直到 Stop
func (s *Service) Start(_ context.Context) error {
	if s == nil || s.server == nil {
		return errors.New("worker not initialized")
	}
	return s.server.Run(s.mux)
}

func (s *Service) Stop(_ context.Context) error {
	if s != nil && s.server != nil {
		s.server.Shutdown()
	}
	return nil
}
