package service

import (
	"strings"
	"time"

	"github.com/o4o-platform/settlement/internal/constants"
	"github.com/o4o-platform/settlement/internal/models"

	"github.com/shopspring/decimal"
)

// PaymentInput 标记付款输入
type PaymentInput struct {
	Method    string
	Reference string
	Amount    decimal.Decimal
	Operator  string
}

// ApproveInput 审批输入
type ApproveInput struct {
	Operator string
	Notes    string
}

// ResolveDisputeInput 解决争议输入
type ResolveDisputeInput struct {
	Resolution     string
	AdjustedAmount *decimal.Decimal
	Operator       string
}

// BulkComputeResult 批量计算结果
type BulkComputeResult struct {
	Period    string `json:"period"`
	Total     int    `json:"total"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
	FailedIDs []uint `json:"failedIds"`
}

func checkTransition(current string, allowed ...string) error {
	for _, status := range allowed {
		if current == status {
			return nil
		}
	}
	return ErrInvalidStatusTransition
}

func validatePayment(input PaymentInput) (PaymentInput, error) {
	input.Method = strings.TrimSpace(input.Method)
	input.Reference = strings.TrimSpace(input.Reference)
	input.Operator = strings.TrimSpace(input.Operator)
	if input.Method == "" || input.Reference == "" || !input.Amount.IsPositive() {
		return input, ErrInvalidPaymentDetails
	}
	input.Amount = input.Amount.Round(2)
	return input, nil
}

// applyDisputeAdjustment 按调整后金额追加一条调整记录，返回新的应付与累计调整
func applyDisputeAdjustment(adjustments models.Adjustments, totalPayable, totalAdjustments models.Money, input ResolveDisputeInput, now time.Time) (models.Adjustments, models.Money, models.Money) {
	if input.AdjustedAmount == nil {
		return adjustments, totalPayable, totalAdjustments
	}
	adjusted := input.AdjustedAmount.Round(2)
	delta := adjusted.Sub(totalPayable.Decimal)
	if delta.IsZero() {
		return adjustments, totalPayable, totalAdjustments
	}
	entryType := constants.AdjustmentTypeCredit
	if delta.IsNegative() {
		entryType = constants.AdjustmentTypeDebit
	}
	adjustments = append(adjustments, models.Adjustment{
		Date:      now,
		Type:      entryType,
		Amount:    toMoney(delta.Abs()),
		Reason:    strings.TrimSpace(input.Resolution),
		CreatedBy: strings.TrimSpace(input.Operator),
	})
	return adjustments, toMoney(adjusted), toMoney(totalAdjustments.Add(delta))
}

func normalizeHistoryLimit(limit, fallback int) int {
	if limit <= 0 {
		limit = fallback
	}
	if limit <= 0 {
		limit = 12
	}
	if limit > 60 {
		limit = 60
	}
	return limit
}
