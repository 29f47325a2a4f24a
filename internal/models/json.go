package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON 通用 JSON 对象字段
type JSON map[string]interface{}

// Value 实现 driver.Valuer 接口
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return marshalJSONValue(j)
}

// Scan 实现 sql.Scanner 接口
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSON)
		return nil
	}
	return scanJSONValue(value, j)
}

// FeeConditions 费率策略条件列表
type FeeConditions []FeeCondition

// Value 实现 driver.Valuer 接口
func (c FeeConditions) Value() (driver.Value, error) {
	if c == nil {
		return marshalJSONValue([]FeeCondition{})
	}
	return marshalJSONValue([]FeeCondition(c))
}

// Scan 实现 sql.Scanner 接口
func (c *FeeConditions) Scan(value interface{}) error {
	if value == nil {
		*c = FeeConditions{}
		return nil
	}
	return scanJSONValue(value, c)
}

// Adjustments 结算调整记录列表
type Adjustments []Adjustment

// Value 实现 driver.Valuer 接口
func (a Adjustments) Value() (driver.Value, error) {
	if a == nil {
		return marshalJSONValue([]Adjustment{})
	}
	return marshalJSONValue([]Adjustment(a))
}

// Scan 实现 sql.Scanner 接口
func (a *Adjustments) Scan(value interface{}) error {
	if value == nil {
		*a = Adjustments{}
		return nil
	}
	return scanJSONValue(value, a)
}

func marshalJSONValue(v interface{}) (driver.Value, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// sqlite 与 postgres 驱动对 JSON 列分别返回 string / []byte
func scanJSONValue(value interface{}, dest interface{}) error {
	switch v := value.(type) {
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dest)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported json column type %T", value)
	}
}
