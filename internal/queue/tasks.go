package queue

import (
	"encoding/json"
	"fmt"

	"github.com/boxorder-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskBoxOrderCreated 分箱订单创建通知
	TaskBoxOrderCreated = constants.TaskBoxOrderCreated
	// TaskBoxOrderEdited 分箱订单编辑通知
	TaskBoxOrderEdited = constants.TaskBoxOrderEdited
)

// BoxOrderCreatedPayload 创建通知载荷
type BoxOrderCreatedPayload struct {
	OrderID   uint   `json:"order_id"`
	AgentName string `json:"agent_name"`
}

// BoxOrderEditedPayload 编辑通知载荷
type BoxOrderEditedPayload struct {
	OrderID  uint   `json:"order_id"`
	EditedBy string `json:"edited_by"`
	Summary  string `json:"summary"`
}

// NewBoxOrderCreatedTask 创建通知任务
func NewBoxOrderCreatedTask(payload BoxOrderCreatedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBoxOrderCreated, body), nil
}

// NewBoxOrderEditedTask 编辑通知任务
func NewBoxOrderEditedTask(payload BoxOrderEditedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBoxOrderEdited, body), nil
}

// ParseBoxOrderCreatedPayload 解析创建通知载荷
func ParseBoxOrderCreatedPayload(task *asynq.Task) (BoxOrderCreatedPayload, error) {
	var payload BoxOrderCreatedPayload
	if task == nil {
		return payload, fmt.Errorf("task is nil")
	}
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}

// ParseBoxOrderEditedPayload 解析编辑通知载荷
func ParseBoxOrderEditedPayload(task *asynq.Task) (BoxOrderEditedPayload, error) {
	var payload BoxOrderEditedPayload
	if task == nil {
		return payload, fmt.Errorf("task is nil")
	}
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
