package queue

import (
	"fmt"
	"strings"
	"time"

	"github.com/cellar-market/internal/config"
	"github.com/cellar-market/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列名称
	DefaultQueue = constants.QueueDefault
	// AuditQueue 审计类低优先级队列
	AuditQueue = constants.QueueAudit

	cartEventMaxRetry = 3
	cartEventTimeout  = 10 * time.Second
)

// Client 队列客户端封装，未启用时所有入队操作静默跳过
type Client struct {
	client     *asynq.Client
	enabled    bool
	auditQueue string
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{enabled: false, auditQueue: AuditQueue}, nil
	}
	return &Client{
		client:     asynq.NewClient(buildRedisOpt(cfg)),
		enabled:    true,
		auditQueue: resolveAuditQueue(cfg),
	}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueCartEvent 推送购物车审计任务
func (c *Client) EnqueueCartEvent(payload CartEventPayload, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewCartEventTask(payload)
	if err != nil {
		return err
	}
	options := append([]asynq.Option{
		asynq.Queue(c.auditQueue),
		asynq.MaxRetry(cartEventMaxRetry),
		asynq.Timeout(cartEventTimeout),
	}, opts...)
	_, err = c.client.Enqueue(task, options...)
	return err
}

// BuildServerConfig 生成队列服务配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	opt := buildRedisOpt(cfg)
	concurrency := 5
	if cfg != nil && cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}
	queues := map[string]int{DefaultQueue: 2, AuditQueue: 1}
	if cfg != nil && len(cfg.Queues) > 0 {
		queues = cfg.Queues
	}
	return opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
	}
}

// resolveAuditQueue 配置里未声明 audit 队列时落到默认队列，避免任务无人消费
func resolveAuditQueue(cfg *config.QueueConfig) string {
	if cfg == nil || len(cfg.Queues) == 0 {
		return AuditQueue
	}
	if _, ok := cfg.Queues[AuditQueue]; ok {
		return AuditQueue
	}
	return DefaultQueue
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	host := "127.0.0.1"
	port := 6379
	password := ""
	db := 0
	if cfg != nil {
		if strings.TrimSpace(cfg.Host) != "" {
			host = strings.TrimSpace(cfg.Host)
		}
		if cfg.Port > 0 {
			port = cfg.Port
		}
		password = cfg.Password
		db = cfg.DB
	}
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	}
}
