package queue

import (
	"encoding/json"
	"time"

	"github.com/cellar-market/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCartEvent 购物车变更审计任务
	TaskCartEvent = constants.TaskCartEvent
)

// CartEventPayload 购物车事件任务载荷
type CartEventPayload struct {
	UserID     string    `json:"user_id"`
	Action     string    `json:"action"`
	WineID     int       `json:"wine_id"`
	WineKey    string    `json:"wine_key,omitempty"`
	Quantity   int       `json:"quantity"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewCartEventTask 创建购物车事件任务
func NewCartEventTask(payload CartEventPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCartEvent, body), nil
}
