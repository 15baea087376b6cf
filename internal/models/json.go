package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON 任意 JSON 对象，用于存储用户输入等结构化内容
type JSON map[string]interface{}

// Value 实现 driver.Valuer 接口
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan 实现 sql.Scanner 接口
func (j *JSON) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*j = JSON{}
		return nil
	case []byte:
		return j.decode(v)
	case string:
		return j.decode([]byte(v))
	default:
		return fmt.Errorf("unsupported json column type %T", value)
	}
}

func (j *JSON) decode(raw []byte) error {
	if len(raw) == 0 {
		*j = JSON{}
		return nil
	}
	out := JSON{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*j = out
	return nil
}
