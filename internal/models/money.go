package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// moneyScale 金额与统计比率保留 2 位小数
const moneyScale = 2

// Money 金额或统计比率，例如 12.50 表示 12.5%
// JSON 输出为定点字符串，输入接受字符串或数字字面量
type Money struct {
	decimal.Decimal
}

func NewMoneyFromDecimal(amount decimal.Decimal) Money {
	return Money{Decimal: amount.Round(moneyScale)}
}

func NewMoneyFromInt(amount int64) Money {
	return Money{Decimal: decimal.NewFromInt(amount)}
}

// NewMoneyPtr 可选金额字段使用，例如费率上下限与实付金额
func NewMoneyPtr(amount decimal.Decimal) *Money {
	m := NewMoneyFromDecimal(amount)
	return &m
}

func (m Money) String() string {
	return m.Decimal.Round(moneyScale).StringFixed(moneyScale)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Money) UnmarshalJSON(b []byte) error {
	raw := string(b)
	if raw == "" || raw == "null" {
		return nil
	}
	if b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
	}
	// 按字面量解析，不经过 float64
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("invalid money %s: %w", b, err)
	}
	m.Decimal = d.Round(moneyScale)
	return nil
}

func (m Money) Value() (driver.Value, error) {
	return m.Decimal.Round(moneyScale).Value()
}

func (m *Money) Scan(value interface{}) error {
	if err := m.Decimal.Scan(value); err != nil {
		return err
	}
	m.Decimal = m.Decimal.Round(moneyScale)
	return nil
}
