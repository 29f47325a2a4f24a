package repository

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type decimalSumRow struct {
	Total decimal.NullDecimal
}

// sumDecimal 对金额列求和，无记录时返回 0
func sumDecimal(query *gorm.DB, column string) (decimal.Decimal, error) {
	var row decimalSumRow
	if err := query.Select(fmt.Sprintf("SUM(%s) AS total", column)).Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	if !row.Total.Valid {
		return decimal.Zero, nil
	}
	return row.Total.Decimal.Round(2), nil
}
