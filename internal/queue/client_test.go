package queue

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/cellar-market/internal/config"
)

func TestDisabledClientSkipsEnqueue(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("client should be disabled")
	}
	if err := client.EnqueueCartEvent(CartEventPayload{UserID: "u1"}); err != nil {
		t.Fatalf("disabled enqueue should be a no-op, got %v", err)
	}
	var nilClient *Client
	if nilClient.Enabled() || nilClient.Close() != nil {
		t.Fatalf("nil client should be safe")
	}
}

func TestNewCartEventTaskPayload(t *testing.T) {
	at := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	task, err := NewCartEventTask(CartEventPayload{UserID: "u1", Action: "add", WineID: 3, Quantity: 2, OccurredAt: at})
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if task.Type() != TaskCartEvent {
		t.Fatalf("unexpected task type: %s", task.Type())
	}
	var decoded CartEventPayload
	if err := json.Unmarshal(task.Payload(), &decoded); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if decoded.WineID != 3 || !decoded.OccurredAt.Equal(at) {
		t.Fatalf("unexpected payload: %+v", decoded)
	}
}

func TestBuildServerConfig(t *testing.T) {
	opt, cfg := BuildServerConfig(&config.QueueConfig{Host: " redis ", Port: 6380, DB: 2})
	if opt.Addr != "redis:6380" || opt.DB != 2 {
		t.Fatalf("unexpected redis opt: %+v", opt)
	}
	if cfg.Concurrency != 5 || cfg.Queues[AuditQueue] != 1 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}
	if got := resolveAuditQueue(&config.QueueConfig{Queues: map[string]int{"default": 1}}); got != DefaultQueue {
		t.Fatalf("audit queue should fall back to default, got %s", got)
	}
}
