package app

import (
	"errors"
	"fmt"

	"github.com/ecofinds/internal/cache"
	"github.com/ecofinds/internal/config"
	"github.com/ecofinds/internal/events"
	"github.com/ecofinds/internal/logger"
	"github.com/ecofinds/internal/provider"
	"github.com/ecofinds/internal/router"
	"github.com/ecofinds/internal/worker"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if !ValidMode(mode) {
		return nil, fmt.Errorf("unknown mode %q", mode)
	}

	container := provider.NewContainer(cfg)
	return buildRunner(cfg, mode, container)
}

func buildRunner(cfg *config.Config, mode string, container *provider.Container) (*Runner, error) {
	var services []Service

	// HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(cfg.Server.Addr(), engine))
	}

	// 异步任务 Worker，all 模式下未启用队列时跳过
	if mode == ModeWorker || (mode == ModeAll && cfg.Queue.Enabled) {
		consumer := worker.NewConsumer(container)
		workerService, err := worker.NewService(&cfg.Queue, consumer)
		if err != nil {
			return nil, err
		}
		services = append(services, workerService)
	}

	// Outbox 事件投递
	if mode == ModeRelay || (mode == ModeAll && cfg.Events.Enabled) {
		publisher := events.NewKafkaPublisher(cfg.Events.Brokers)
		if !publisher.Enabled() {
			if mode == ModeRelay {
				return nil, errors.New("events brokers not configured")
			}
			logger.Warnw("outbox_relay_skipped", "reason", "no brokers configured")
		} else {
			services = append(services, events.NewRelay(cfg.Events, container.OutboxRepo, publisher, container.Metrics))
		}
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}
	defer func() {
		if err := cache.Close(); err != nil {
			opts.Logger.Warnw("redis_close_failed", "error", err)
		}
	}()

	opts.Logger.Infow("app_start", "addr", opts.Config.Server.Addr(), "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}
