package queue

import (
	"testing"

	"github.com/boxorder-next/internal/config"
)

func TestDisabledClientIsNoop(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("client should be disabled")
	}
	if err := client.EnqueueBoxOrderCreated(BoxOrderCreatedPayload{OrderID: 1}); err != nil {
		t.Fatalf("disabled enqueue should be a no-op: %v", err)
	}
	var nilClient *Client
	if err := nilClient.EnqueueBoxOrderEdited(BoxOrderEditedPayload{OrderID: 1}); err != nil {
		t.Fatalf("nil client enqueue should be a no-op: %v", err)
	}
}

func TestTaskPayloadRoundTrip(t *testing.T) {
	task, err := NewBoxOrderEditedTask(BoxOrderEditedPayload{OrderID: 9, EditedBy: "Aina", Summary: `added box "Bob"`})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != TaskBoxOrderEdited {
		t.Fatalf("unexpected task type: %s", task.Type())
	}
	payload, err := ParseBoxOrderEditedPayload(task)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if payload.OrderID != 9 || payload.EditedBy != "Aina" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestResolveNotifyQueue(t *testing.T) {
	if got := resolveNotifyQueue(&config.QueueConfig{Queues: map[string]int{"default": 1}}); got != DefaultQueue {
		t.Fatalf("expected fallback to default queue, got %s", got)
	}
	if got := resolveNotifyQueue(&config.QueueConfig{Queues: map[string]int{"notify": 2}}); got != NotifyQueue {
		t.Fatalf("expected notify queue, got %s", got)
	}
	opt, cfg := BuildServerConfig(&config.QueueConfig{Host: "redis", Port: 6380, Concurrency: 3})
	if opt.Addr != "redis:6380" || cfg.Concurrency != 3 {
		t.Fatalf("unexpected server config: %s %d", opt.Addr, cfg.Concurrency)
	}
}
