package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// rateScale 费率百分比保留 4 位小数，对应 decimal(10,4)
const rateScale = 4

// Rate 费率百分比，例如 3.125 表示 3.125%
// 落库与计算使用同一精度
type Rate struct {
	decimal.Decimal
}

func NewRateFromDecimal(rate decimal.Decimal) Rate {
	return Rate{Decimal: rate.Round(rateScale)}
}

func NewRateFromInt(rate int64) Rate {
	return Rate{Decimal: decimal.NewFromInt(rate)}
}

// NewRatePtr 可选费率字段使用，空表示沿用默认费率
func NewRatePtr(rate decimal.Decimal) *Rate {
	r := NewRateFromDecimal(rate)
	return &r
}

// RoundRate 按费率精度取整
func RoundRate(rate decimal.Decimal) decimal.Decimal {
	return rate.Round(rateScale)
}

func (r Rate) String() string {
	return r.Decimal.Round(rateScale).String()
}

func (r Rate) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Rate) UnmarshalJSON(b []byte) error {
	raw := string(b)
	if raw == "" || raw == "null" {
		return nil
	}
	if b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("invalid rate %s: %w", b, err)
	}
	r.Decimal = d.Round(rateScale)
	return nil
}

func (r Rate) Value() (driver.Value, error) {
	return r.Decimal.Round(rateScale).Value()
}

func (r *Rate) Scan(value interface{}) error {
	if err := r.Decimal.Scan(value); err != nil {
		return err
	}
	r.Decimal = r.Decimal.Round(rateScale)
	return nil
}
