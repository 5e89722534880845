package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSONBStringMap 用于存储字符串键值对的 JSONB 类型
type JSONBStringMap map[string]string

// JSONBStringMap 的 Scanner 接口实现
func (j *JSONBStringMap) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("类型断言失败: 不是 []byte 或 string")
	}
	return json.Unmarshal(bytes, j)
}

// JSONBStringMap 的 Valuer 接口实现
func (j JSONBStringMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}
