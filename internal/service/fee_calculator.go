package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/o4o-platform/settlement/internal/constants"
	"github.com/o4o-platform/settlement/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FeeContext 费用计算上下文
type FeeContext struct {
	CategoryID    string `json:"categoryId,omitempty"`
	VendorTier    string `json:"vendorTier,omitempty"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
}

// PaymentProcessorFee 支付处理费配置（百分比 + 固定金额）
type PaymentProcessorFee struct {
	Rate  decimal.Decimal
	Fixed decimal.Decimal
}

// FeeBreakdownItem 费用明细项
type FeeBreakdownItem struct {
	Type        string       `json:"type"`
	Name        string       `json:"name"`
	Rate        models.Rate  `json:"rate"`
	Amount      models.Money `json:"amount"`
	Description string       `json:"description,omitempty"`
}

// FeeCalculation 费用计算结果
type FeeCalculation struct {
	OrderAmount  models.Money       `json:"orderAmount"`
	Breakdown    []FeeBreakdownItem `json:"breakdown"`
	PlatformFee  models.Money       `json:"platformFee"`
	TossFee      models.Money       `json:"tossFee"`
	VendorAmount models.Money       `json:"vendorAmount"`
}

// CalculateFee 根据生效策略计算分层费用
// 不访问外部状态，结果只取决于入参。
func CalculateFee(orderAmount decimal.Decimal, feeCtx FeeContext, policies []models.FeePolicy, processor PaymentProcessorFee) (*FeeCalculation, error) {
	if orderAmount.IsNegative() {
		return nil, ErrInvalidOrderAmount
	}
	orderAmount = orderAmount.Round(2)

	matched := MatchFeePolicies(policies, feeCtx, orderAmount)
	breakdown := make([]FeeBreakdownItem, 0, len(matched)+1)
	platformFee := decimal.Zero
	for _, policy := range matched {
		amount := ApplyFeePolicy(orderAmount, policy)
		platformFee = platformFee.Add(amount)
		breakdown = append(breakdown, FeeBreakdownItem{
			Type:        policy.Type,
			Name:        policy.Name,
			Rate:        policy.BaseRate,
			Amount:      models.NewMoneyFromDecimal(amount),
			Description: policy.Description,
		})
	}

	tossFee := percentOf(orderAmount, processor.Rate).Add(processor.Fixed.Round(2))
	breakdown = append(breakdown, FeeBreakdownItem{
		Type:        constants.FeeBreakdownTypePaymentProcessor,
		Name:        "Toss Payments",
		Rate:        models.NewRateFromDecimal(processor.Rate),
		Amount:      models.NewMoneyFromDecimal(tossFee),
		Description: processorDescription(processor),
	})

	vendorAmount := orderAmount.Sub(platformFee).Sub(tossFee)
	if vendorAmount.IsNegative() {
		return nil, ErrFeeExceedsOrderAmount
	}

	return &FeeCalculation{
		OrderAmount:  models.NewMoneyFromDecimal(orderAmount),
		Breakdown:    breakdown,
		PlatformFee:  models.NewMoneyFromDecimal(platformFee),
		TossFee:      models.NewMoneyFromDecimal(tossFee),
		VendorAmount: models.NewMoneyFromDecimal(vendorAmount),
	}, nil
}

// ApplyFeePolicy 计算单条策略费用，并按最高/最低收费收敛
// 上下限冲突时以最低收费为准
func ApplyFeePolicy(orderAmount decimal.Decimal, policy models.FeePolicy) decimal.Decimal {
	amount := percentOf(orderAmount, policy.BaseRate.Decimal)
	// maxFee 为 0 视为不限
	if policy.MaxFee != nil && policy.MaxFee.IsPositive() && amount.GreaterThan(policy.MaxFee.Decimal) {
		amount = policy.MaxFee.Decimal.Round(2)
	}
	if policy.MinFee != nil && amount.LessThan(policy.MinFee.Decimal) {
		amount = policy.MinFee.Decimal.Round(2)
	}
	return amount
}

// MatchFeePolicies 筛选命中的策略，按 sort_order 降序、id 升序排列
func MatchFeePolicies(policies []models.FeePolicy, feeCtx FeeContext, orderAmount decimal.Decimal) []models.FeePolicy {
	matched := make([]models.FeePolicy, 0, len(policies))
	for _, policy := range policies {
		if policyMatches(policy, feeCtx, orderAmount) {
			matched = append(matched, policy)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].SortOrder != matched[j].SortOrder {
			return matched[i].SortOrder > matched[j].SortOrder
		}
		return matched[i].ID < matched[j].ID
	})
	return matched
}

func policyMatches(policy models.FeePolicy, feeCtx FeeContext, orderAmount decimal.Decimal) bool {
	if !policy.IsActive {
		return false
	}
	if len(policy.Conditions) == 0 {
		return policy.Type == constants.FeePolicyTypePlatform
	}
	for _, condition := range policy.Conditions {
		if !conditionMatches(condition, feeCtx, orderAmount) {
			return false
		}
	}
	return true
}

func conditionMatches(condition models.FeeCondition, feeCtx FeeContext, orderAmount decimal.Decimal) bool {
	operator := strings.TrimSpace(condition.Operator)
	if strings.TrimSpace(condition.Key) == constants.FeeConditionKeyOrderAmount {
		return compareAmount(operator, orderAmount, condition.Value)
	}

	actual, ok := contextValue(feeCtx, condition.Key)
	if !ok {
		return false
	}
	switch operator {
	case constants.FeeConditionOpEquals:
		return actual != "" && actual == stringifyConditionValue(condition.Value)
	case constants.FeeConditionOpIn:
		return actual != "" && containsConditionValue(condition.Value, actual)
	case constants.FeeConditionOpNotIn:
		return actual != "" && !containsConditionValue(condition.Value, actual)
	default:
		return false
	}
}

func contextValue(feeCtx FeeContext, key string) (string, bool) {
	switch strings.TrimSpace(key) {
	case constants.FeeConditionKeyCategoryID:
		return strings.TrimSpace(feeCtx.CategoryID), true
	case constants.FeeConditionKeyVendorTier:
		return strings.TrimSpace(feeCtx.VendorTier), true
	case constants.FeeConditionKeyPaymentMethod:
		return strings.TrimSpace(feeCtx.PaymentMethod), true
	default:
		return "", false
	}
}

func compareAmount(operator string, orderAmount decimal.Decimal, raw interface{}) bool {
	switch operator {
	case constants.FeeConditionOpEquals, constants.FeeConditionOpGreaterThan, constants.FeeConditionOpLessThan:
		target, ok := decimalFromValue(raw)
		if !ok {
			return false
		}
		switch operator {
		case constants.FeeConditionOpGreaterThan:
			return orderAmount.GreaterThan(target)
		case constants.FeeConditionOpLessThan:
			return orderAmount.LessThan(target)
		default:
			return orderAmount.Equal(target)
		}
	case constants.FeeConditionOpIn, constants.FeeConditionOpNotIn:
		found := false
		if list, ok := raw.([]interface{}); ok {
			for _, item := range list {
				if target, ok := decimalFromValue(item); ok && orderAmount.Equal(target) {
					found = true
					break
				}
			}
		}
		if operator == constants.FeeConditionOpIn {
			return found
		}
		return !found
	default:
		return false
	}
}

func decimalFromValue(raw interface{}) (decimal.Decimal, bool) {
	switch v := raw.(type) {
	case float64:
		return decimal.NewFromFloat(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case decimal.Decimal:
		return v, true
	default:
		return decimal.Zero, false
	}
}

func stringifyConditionValue(raw interface{}) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return decimal.NewFromFloat(v).String()
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

func containsConditionValue(raw interface{}, actual string) bool {
	switch list := raw.(type) {
	case []interface{}:
		for _, item := range list {
			if stringifyConditionValue(item) == actual {
				return true
			}
		}
	case []string:
		for _, item := range list {
			if strings.TrimSpace(item) == actual {
				return true
			}
		}
	}
	return false
}

// percentOf 按百分比计算并保留 2 位小数
func percentOf(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Div(hundred).Round(2)
}

func processorDescription(processor PaymentProcessorFee) string {
	if processor.Fixed.IsZero() {
		return fmt.Sprintf("%s%%", processor.Rate.String())
	}
	return fmt.Sprintf("%s%% + %s", processor.Rate.String(), processor.Fixed.Round(2).String())
}
