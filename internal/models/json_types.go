package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/boxorder-next/internal/boxorder"
)

// JSON 通用 JSON 对象列
type JSON map[string]interface{}

// Value 实现 driver.Valuer 接口
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan 实现 sql.Scanner 接口
func (j *JSON) Scan(value interface{}) error {
	raw, err := scanBytes(value)
	if err != nil || raw == nil {
		*j = JSON{}
		return err
	}
	return json.Unmarshal(raw, j)
}

// StringArray 字符串数组列
type StringArray []string

// Value 实现 driver.Valuer 接口
func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

// Scan 实现 sql.Scanner 接口
func (s *StringArray) Scan(value interface{}) error {
	raw, err := scanBytes(value)
	if err != nil || raw == nil {
		*s = StringArray{}
		return err
	}
	return json.Unmarshal(raw, s)
}

// BoxSetColumn 订单上的分箱数据列
type BoxSetColumn struct {
	boxorder.BoxSet
}

// Value 实现 driver.Valuer 接口
func (b BoxSetColumn) Value() (driver.Value, error) {
	if b.Boxes == nil {
		return `{"boxes":[]}`, nil
	}
	data, err := json.Marshal(b.BoxSet)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan 实现 sql.Scanner 接口
func (b *BoxSetColumn) Scan(value interface{}) error {
	raw, err := scanBytes(value)
	if err != nil || raw == nil {
		b.BoxSet = boxorder.BoxSet{}
		return err
	}
	return json.Unmarshal(raw, &b.BoxSet)
}

// MarshalJSON 直接输出 BoxSet
func (b BoxSetColumn) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.BoxSet)
}

// UnmarshalJSON 直接解析 BoxSet
func (b *BoxSetColumn) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &b.BoxSet)
}

// ChangeList 审计记录中的变更列表列
type ChangeList []boxorder.Change

// Value 实现 driver.Valuer 接口
func (c ChangeList) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]boxorder.Change(c))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan 实现 sql.Scanner 接口
func (c *ChangeList) Scan(value interface{}) error {
	raw, err := scanBytes(value)
	if err != nil || raw == nil {
		*c = ChangeList{}
		return err
	}
	return json.Unmarshal(raw, (*[]boxorder.Change)(c))
}

// sqlite 驱动返回 string，postgres 返回 []byte
func scanBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported json column type %T", value)
	}
}
