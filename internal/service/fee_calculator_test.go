package service

import (
	"errors"
	"testing"

	"github.com/o4o-platform/settlement/internal/constants"
	"github.com/o4o-platform/settlement/internal/models"

	"github.com/shopspring/decimal"
)

func mustDecimal(t *testing.T, raw string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(raw)
	if err != nil {
		t.Fatalf("parse decimal %s failed: %v", raw, err)
	}
	return d
}

func moneyPtr(raw string) *models.Money {
	return models.NewMoneyPtr(decimal.RequireFromString(raw))
}

func ratePtr(raw string) *models.Rate {
	return models.NewRatePtr(decimal.RequireFromString(raw))
}

func platformPolicy(id uint, rate string) models.FeePolicy {
	return models.FeePolicy{
		ID:       id,
		Name:     "기본 플랫폼 수수료",
		Type:     constants.FeePolicyTypePlatform,
		BaseRate: models.NewRateFromDecimal(decimal.RequireFromString(rate)),
		IsActive: true,
	}
}

func TestCalculateFeePlatformAndProcessor(t *testing.T) {
	processor := PaymentProcessorFee{Rate: decimal.NewFromInt(3)}
	result, err := CalculateFee(mustDecimal(t, "100000"), FeeContext{}, []models.FeePolicy{platformPolicy(1, "5.0")}, processor)
	if err != nil {
		t.Fatalf("calculate fee failed: %v", err)
	}
	if result.PlatformFee.String() != "5000.00" {
		t.Fatalf("platform fee want 5000.00 got %s", result.PlatformFee.String())
	}
	if result.TossFee.String() != "3000.00" {
		t.Fatalf("toss fee want 3000.00 got %s", result.TossFee.String())
	}
	if result.VendorAmount.String() != "92000.00" {
		t.Fatalf("vendor amount want 92000.00 got %s", result.VendorAmount.String())
	}
	if len(result.Breakdown) != 2 {
		t.Fatalf("breakdown len want 2 got %d", len(result.Breakdown))
	}
	if result.Breakdown[1].Type != constants.FeeBreakdownTypePaymentProcessor {
		t.Fatalf("processor line should be last, got %s", result.Breakdown[1].Type)
	}
}

func TestCalculateFeeClampsToMinFee(t *testing.T) {
	policy := platformPolicy(1, "10.0")
	policy.MinFee = moneyPtr("2000")
	policy.MaxFee = moneyPtr("5000")

	result, err := CalculateFee(mustDecimal(t, "10000"), FeeContext{}, []models.FeePolicy{policy}, PaymentProcessorFee{})
	if err != nil {
		t.Fatalf("calculate fee failed: %v", err)
	}
	if result.Breakdown[0].Amount.String() != "2000.00" {
		t.Fatalf("clamped amount want 2000.00 got %s", result.Breakdown[0].Amount.String())
	}
	if result.VendorAmount.String() != "8000.00" {
		t.Fatalf("vendor amount want 8000.00 got %s", result.VendorAmount.String())
	}
}

func TestApplyFeePolicyBounds(t *testing.T) {
	policy := platformPolicy(1, "10.0")
	policy.MinFee = moneyPtr("2000")
	policy.MaxFee = moneyPtr("5000")

	for _, raw := range []string{"0", "10000", "35000", "1000000", "123456.78"} {
		amount := ApplyFeePolicy(mustDecimal(t, raw), policy)
		if amount.LessThan(policy.MinFee.Decimal) || amount.GreaterThan(policy.MaxFee.Decimal) {
			t.Fatalf("amount %s out of bounds for order %s", amount.String(), raw)
		}
	}

	unbounded := platformPolicy(2, "10.0")
	unbounded.MaxFee = moneyPtr("0")
	if got := ApplyFeePolicy(mustDecimal(t, "1000000"), unbounded); !got.Equal(decimal.NewFromInt(100000)) {
		t.Fatalf("zero max fee should be unbounded, got %s", got.String())
	}

	inverted := platformPolicy(3, "10.0")
	inverted.MinFee = moneyPtr("5000")
	inverted.MaxFee = moneyPtr("1000")
	for _, raw := range []string{"100", "100000"} {
		if got := ApplyFeePolicy(mustDecimal(t, raw), inverted); !got.Equal(decimal.NewFromInt(5000)) {
			t.Fatalf("min fee should win over max fee for order %s, got %s", raw, got.String())
		}
	}
}

func TestCalculateFeeKeepsTotalsExact(t *testing.T) {
	policies := []models.FeePolicy{platformPolicy(1, "3.3"), platformPolicy(2, "1.7")}
	processor := PaymentProcessorFee{Rate: mustDecimal(t, "2.9"), Fixed: mustDecimal(t, "300")}
	for _, raw := range []string{"0.01", "999.99", "12345.67", "100000", "7777777.77"} {
		order := mustDecimal(t, raw)
		result, err := CalculateFee(order, FeeContext{}, policies, processor)
		if err != nil {
			if errors.Is(err, ErrFeeExceedsOrderAmount) {
				continue
			}
			t.Fatalf("calculate fee for %s failed: %v", raw, err)
		}
		sum := result.VendorAmount.Add(result.PlatformFee.Decimal).Add(result.TossFee.Decimal)
		if !sum.Equal(order) {
			t.Fatalf("vendor+platform+toss want %s got %s", order.String(), sum.String())
		}
	}
}

func TestCalculateFeeRejectsNegativeVendorAmount(t *testing.T) {
	policy := platformPolicy(1, "1.0")
	policy.MinFee = moneyPtr("5000")
	_, err := CalculateFee(mustDecimal(t, "3000"), FeeContext{}, []models.FeePolicy{policy}, PaymentProcessorFee{})
	if !errors.Is(err, ErrFeeExceedsOrderAmount) {
		t.Fatalf("error want ErrFeeExceedsOrderAmount got %v", err)
	}

	_, err = CalculateFee(mustDecimal(t, "-1"), FeeContext{}, nil, PaymentProcessorFee{})
	if !errors.Is(err, ErrInvalidOrderAmount) {
		t.Fatalf("error want ErrInvalidOrderAmount got %v", err)
	}
}

func TestMatchFeePoliciesByContext(t *testing.T) {
	category := models.FeePolicy{
		ID:        10,
		Name:      "식품 카테고리",
		Type:      constants.FeePolicyTypeCategory,
		BaseRate:  models.NewRateFromInt(2),
		IsActive:  true,
		SortOrder: 5,
		Conditions: models.FeeConditions{
			{Key: constants.FeeConditionKeyCategoryID, Operator: constants.FeeConditionOpEquals, Value: "food"},
		},
	}
	tier := models.FeePolicy{
		ID:       11,
		Name:     "골드 등급",
		Type:     constants.FeePolicyTypeVendorTier,
		BaseRate: models.NewRateFromInt(1),
		IsActive: true,
		Conditions: models.FeeConditions{
			{Key: constants.FeeConditionKeyVendorTier, Operator: constants.FeeConditionOpIn, Value: []interface{}{"gold", "platinum"}},
		},
	}
	large := models.FeePolicy{
		ID:       12,
		Name:     "대량 주문",
		Type:     constants.FeePolicyTypeCategory,
		BaseRate: models.NewRateFromInt(1),
		IsActive: true,
		Conditions: models.FeeConditions{
			{Key: constants.FeeConditionKeyOrderAmount, Operator: constants.FeeConditionOpGreaterThan, Value: float64(500000)},
		},
	}
	bare := models.FeePolicy{ID: 13, Name: "조건 없음", Type: constants.FeePolicyTypePaymentMethod, BaseRate: models.NewRateFromInt(1), IsActive: true}
	inactive := platformPolicy(14, "9")
	inactive.IsActive = false
	policies := []models.FeePolicy{platformPolicy(1, "5"), category, tier, large, bare, inactive}

	matched := MatchFeePolicies(policies, FeeContext{CategoryID: "food", VendorTier: "gold"}, decimal.NewFromInt(10000))
	if len(matched) != 3 {
		t.Fatalf("matched len want 3 got %d", len(matched))
	}
	if matched[0].ID != 10 || matched[1].ID != 1 || matched[2].ID != 11 {
		t.Fatalf("order want [10 1 11] got [%d %d %d]", matched[0].ID, matched[1].ID, matched[2].ID)
	}

	matched = MatchFeePolicies(policies, FeeContext{CategoryID: "drink", VendorTier: "silver"}, decimal.NewFromInt(600000))
	if len(matched) != 2 || matched[0].ID != 1 || matched[1].ID != 12 {
		t.Fatalf("expected platform and large-order policies, got %+v", matched)
	}
}
