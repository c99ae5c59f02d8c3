package queue

import (
	"context"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/ecofinds/internal/config"
	"github.com/ecofinds/internal/constants"
	"github.com/ecofinds/internal/logger"

	"github.com/hibiken/asynq"
)

const (
	DefaultQueue  = constants.QueueDefault
	CriticalQueue = constants.QueueCritical
)

const (
	defaultConcurrency     = 10
	defaultShutdownTimeout = 8 * time.Second
)

// Client 任务投递端；未启用队列时所有投递为空操作
type Client struct {
	client *asynq.Client
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{}, nil
	}
	return &Client{client: asynq.NewClient(redisOpt(cfg))}, nil
}

func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// EnqueuePurchaseCreated 通知卖家有新的购买记录，失败最多重试 5 次
func (c *Client) EnqueuePurchaseCreated(payload PurchaseCreatedPayload, opts ...asynq.Option) error {
	task, err := NewPurchaseCreatedTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(task, append([]asynq.Option{asynq.Queue(DefaultQueue), asynq.MaxRetry(5)}, opts...))
}

// EnqueueCartPruneSold 从其他用户购物车移除已售商品
func (c *Client) EnqueueCartPruneSold(payload CartPruneSoldPayload, opts ...asynq.Option) error {
	if len(payload.ProductIDs) == 0 {
		return nil
	}
	task, err := NewCartPruneSoldTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(task, append([]asynq.Option{asynq.Queue(CriticalQueue)}, opts...))
}

func (c *Client) enqueue(task *asynq.Task, opts []asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	info, err := c.client.EnqueueContext(context.Background(), task, opts...)
	if err != nil {
		return err
	}
	logger.Debugw("queue_task_enqueued", "type", task.Type(), "task_id", info.ID, "queue", info.Queue)
	return nil
}

// BuildServerConfig 生成 Worker 端配置，队列权重默认 critical:6 default:3
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	serverCfg := asynq.Config{
		Concurrency:     defaultConcurrency,
		Queues:          map[string]int{CriticalQueue: 6, DefaultQueue: 3},
		ShutdownTimeout: defaultShutdownTimeout,
		Logger:          logger.S(),
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			logger.Warnw("queue_task_failed",
				"type", task.Type(),
				"retried", retried,
				"max_retry", maxRetry,
				"error", err,
			)
		}),
	}
	if cfg != nil {
		if cfg.Concurrency > 0 {
			serverCfg.Concurrency = cfg.Concurrency
		}
		if len(cfg.Queues) > 0 {
			serverCfg.Queues = cfg.Queues
		}
	}
	return redisOpt(cfg), serverCfg
}

func redisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	host, port := "127.0.0.1", 6379
	opt := asynq.RedisClientOpt{}
	if cfg != nil {
		if h := strings.TrimSpace(cfg.Host); h != "" {
			host = h
		}
		if cfg.Port > 0 {
			port = cfg.Port
		}
		opt.Password = cfg.Password
		opt.DB = cfg.DB
	}
	opt.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	return opt
}
