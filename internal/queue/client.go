package queue

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/boxorder-next/internal/config"
	"github.com/boxorder-next/internal/constants"
	"github.com/boxorder-next/internal/logger"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列
	DefaultQueue = constants.QueueDefault
	// NotifyQueue 邮件通知队列
	NotifyQueue = constants.QueueNotify

	notifyMaxRetry   = 5
	notifyTimeout    = time.Minute
	createdRetention = 24 * time.Hour
	defaultRedisHost = "127.0.0.1"
	defaultRedisPort = 6379
	defaultWorkers   = 10
)

// Client 通知任务入队；队列关闭或 nil 时入队为空操作
type Client struct {
	inner       *asynq.Client
	notifyQueue string
}

// NewClient 按配置创建客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{notifyQueue: NotifyQueue}, nil
	}
	return &Client{
		inner:       asynq.NewClient(redisOpt(cfg)),
		notifyQueue: resolveNotifyQueue(cfg),
	}, nil
}

// Enabled 是否真正入队
func (c *Client) Enabled() bool {
	return c != nil && c.inner != nil
}

// Close 关闭 redis 连接
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.inner.Close()
}

// EnqueueBoxOrderCreated 新订单通知；同一订单只入队一次
func (c *Client) EnqueueBoxOrderCreated(payload BoxOrderCreatedPayload) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewBoxOrderCreatedTask(payload)
	if err != nil {
		return err
	}
	err = c.enqueueNotify(task,
		asynq.TaskID(fmt.Sprintf("%s:%d", TaskBoxOrderCreated, payload.OrderID)),
		asynq.Retention(createdRetention),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		logger.Debugw("queue_box_order_created_duplicate", "order_id", payload.OrderID)
		return nil
	}
	return err
}

// EnqueueBoxOrderEdited 编辑通知，每次保存一条
func (c *Client) EnqueueBoxOrderEdited(payload BoxOrderEditedPayload) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewBoxOrderEditedTask(payload)
	if err != nil {
		return err
	}
	return c.enqueueNotify(task)
}

func (c *Client) enqueueNotify(task *asynq.Task, extra ...asynq.Option) error {
	opts := append([]asynq.Option{
		asynq.Queue(c.notifyQueue),
		asynq.MaxRetry(notifyMaxRetry),
		asynq.Timeout(notifyTimeout),
	}, extra...)
	info, err := c.inner.Enqueue(task, opts...)
	if err != nil {
		return err
	}
	logger.Debugw("queue_task_enqueued", "type", task.Type(), "task_id", info.ID, "queue", info.Queue)
	return nil
}

// BuildServerConfig worker 端的 redis 连接与并发配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	concurrency := defaultWorkers
	queues := map[string]int{DefaultQueue: 1, NotifyQueue: 1}
	if cfg != nil {
		if cfg.Concurrency > 0 {
			concurrency = cfg.Concurrency
		}
		if len(cfg.Queues) > 0 {
			queues = cfg.Queues
		}
	}
	return redisOpt(cfg), asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			logger.Warnw("queue_task_failed", "type", task.Type(), "retried", retried, "error", err)
		}),
	}
}

// notify 队列未配置时回落到 default，保证任务有人消费
func resolveNotifyQueue(cfg *config.QueueConfig) string {
	if cfg == nil || len(cfg.Queues) == 0 {
		return NotifyQueue
	}
	if _, ok := cfg.Queues[NotifyQueue]; ok {
		return NotifyQueue
	}
	return DefaultQueue
}

func redisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	host, port := defaultRedisHost, defaultRedisPort
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
