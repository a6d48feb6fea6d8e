package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cellar-market/internal/logger"
	"github.com/cellar-market/internal/provider"
	"github.com/cellar-market/internal/queue"
	"github.com/cellar-market/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCartEvent, c.handleCartEvent)
}

func (c *Consumer) handleCartEvent(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil || c.CartEventService == nil {
		logger.Debugw("worker_cart_event_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.CartEventPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_cart_event_unmarshal_failed", "error", err)
		// 载荷损坏重试也无意义
		return fmt.Errorf("decode cart event: %v: %w", err, asynq.SkipRetry)
	}
	event, err := c.CartEventService.Record(payload)
	if err != nil {
		if errors.Is(err, service.ErrInvalidUserID) {
			logger.Debugw("worker_cart_event_skip_invalid_payload", "action", payload.Action)
			return nil
		}
		logger.Warnw("worker_cart_event_persist_failed",
			"user_id", payload.UserID,
			"action", payload.Action,
			"error", err,
		)
		return err
	}
	logger.Debugw("worker_cart_event_recorded",
		"event_id", event.ID,
		"user_id", event.UserID,
		"action", event.Action,
	)
	return nil
}
