package boxorder

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidHoldingKey 会话 key 为空
var ErrInvalidHoldingKey = errors.New("holding key requires a session")

// HoldingKey 暂存区的作用域：(会话, 代理人)
type HoldingKey struct {
	SessionKey string
	AgentID    uint
}

// Validate 校验 key
func (k HoldingKey) Validate() error {
	if strings.TrimSpace(k.SessionKey) == "" {
		return ErrInvalidHoldingKey
	}
	return nil
}

// String 缓存 key 片段
func (k HoldingKey) String() string {
	return fmt.Sprintf("%s:%d", strings.TrimSpace(k.SessionKey), k.AgentID)
}

// HoldingStore 提交购物车到结账完成之间的短期暂存
// Get 在未命中或已过期时返回 nil, nil
type HoldingStore interface {
	Put(ctx context.Context, key HoldingKey, set BoxSet) error
	Get(ctx context.Context, key HoldingKey) (*BoxSet, error)
	Clear(ctx context.Context, key HoldingKey) error
}
