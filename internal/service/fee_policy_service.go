package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/o4o-platform/settlement/internal/cache"
	"github.com/o4o-platform/settlement/internal/config"
	"github.com/o4o-platform/settlement/internal/constants"
	"github.com/o4o-platform/settlement/internal/logger"
	"github.com/o4o-platform/settlement/internal/metrics"
	"github.com/o4o-platform/settlement/internal/models"
	"github.com/o4o-platform/settlement/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	activeFeePoliciesCacheKey = "fee_policies:active"
	activeFeePoliciesCacheTTL = 60 * time.Second
)

var (
	validFeePolicyTypes = map[string]struct{}{
		constants.FeePolicyTypePlatform:      {},
		constants.FeePolicyTypeCategory:      {},
		constants.FeePolicyTypeVendorTier:    {},
		constants.FeePolicyTypePaymentMethod: {},
	}
	validFeeConditionKeys = map[string]struct{}{
		constants.FeeConditionKeyCategoryID:    {},
		constants.FeeConditionKeyVendorTier:    {},
		constants.FeeConditionKeyPaymentMethod: {},
		constants.FeeConditionKeyOrderAmount:   {},
	}
)

// FeePolicyService 费率策略服务
type FeePolicyService struct {
	repo      repository.FeePolicyRepository
	processor PaymentProcessorFee
	metrics   *metrics.Metrics
}

// NewFeePolicyService 创建费率策略服务
func NewFeePolicyService(repo repository.FeePolicyRepository, cfg config.SettlementConfig, m *metrics.Metrics) *FeePolicyService {
	return &FeePolicyService{
		repo: repo,
		processor: PaymentProcessorFee{
			Rate:  decimal.NewFromFloat(cfg.PaymentFeeRate),
			Fixed: decimal.NewFromFloat(cfg.PaymentFeeFixed),
		},
		metrics: m,
	}
}

// FeePolicyInput 创建/更新费率策略输入
type FeePolicyInput struct {
	Name        string
	Type        string
	BaseRate    decimal.Decimal
	MinFee      *decimal.Decimal
	MaxFee      *decimal.Decimal
	IsActive    *bool
	Conditions  []models.FeeCondition
	Description string
	SortOrder   int
}

// CalculateFeeInput 费用试算输入
type CalculateFeeInput struct {
	OrderAmount decimal.Decimal
	Context     FeeContext
}

// List 获取费率策略列表
func (s *FeePolicyService) List(policyType, search string, isActive *bool, page, pageSize int) ([]models.FeePolicy, int64, error) {
	return s.repo.List(repository.FeePolicyListFilter{
		Page:     page,
		PageSize: pageSize,
		Type:     strings.TrimSpace(policyType),
		Search:   strings.TrimSpace(search),
		IsActive: isActive,
	})
}

// GetByID 获取费率策略
func (s *FeePolicyService) GetByID(id uint) (*models.FeePolicy, error) {
	policy, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if policy == nil {
		return nil, ErrFeePolicyNotFound
	}
	return policy, nil
}

// Create 创建费率策略
func (s *FeePolicyService) Create(ctx context.Context, input FeePolicyInput) (*models.FeePolicy, error) {
	policy := &models.FeePolicy{IsActive: true}
	if err := applyFeePolicyInput(policy, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(policy); err != nil {
		return nil, err
	}
	s.invalidateActive(ctx)
	return policy, nil
}

// Update 更新费率策略
func (s *FeePolicyService) Update(ctx context.Context, id uint, input FeePolicyInput) (*models.FeePolicy, error) {
	policy, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := applyFeePolicyInput(policy, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(policy); err != nil {
		return nil, err
	}
	s.invalidateActive(ctx)
	return policy, nil
}

// Delete 删除费率策略
func (s *FeePolicyService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.invalidateActive(ctx)
	return nil
}

// Toggle 切换启用状态，isActive 为空时取反
func (s *FeePolicyService) Toggle(ctx context.Context, id uint, isActive *bool) (*models.FeePolicy, error) {
	policy, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	next := !policy.IsActive
	if isActive != nil {
		next = *isActive
	}
	if err := s.repo.SetActive(id, next); err != nil {
		return nil, err
	}
	policy.IsActive = next
	s.invalidateActive(ctx)
	return policy, nil
}

// ListActive 获取启用策略（Redis 缓存）
func (s *FeePolicyService) ListActive(ctx context.Context) ([]models.FeePolicy, error) {
	return cache.Remember(ctx, activeFeePoliciesCacheKey, activeFeePoliciesCacheTTL, false, func(ctx context.Context) ([]models.FeePolicy, error) {
		return s.repo.ListActive()
	})
}

// CalculateFee 按当前启用策略试算费用
func (s *FeePolicyService) CalculateFee(ctx context.Context, input CalculateFeeInput) (*FeeCalculation, error) {
	if input.OrderAmount.IsNegative() {
		s.metrics.RecordFeeCalculation(metrics.ResultRejected)
		return nil, ErrInvalidOrderAmount
	}
	policies, err := s.ListActive(ctx)
	if err != nil {
		s.metrics.RecordFeeCalculation(metrics.ResultError)
		return nil, err
	}
	result, err := CalculateFee(input.OrderAmount, input.Context, policies, s.processor)
	if err != nil {
		s.metrics.RecordFeeCalculation(metrics.ResultRejected)
		return nil, err
	}
	s.metrics.RecordFeeCalculation(metrics.ResultSuccess)
	return result, nil
}

func (s *FeePolicyService) invalidateActive(ctx context.Context) {
	if err := cache.Del(ctx, activeFeePoliciesCacheKey); err != nil {
		logger.Warnw("fee_policy_cache_invalidate_failed", "key", activeFeePoliciesCacheKey, "error", err)
	}
}

func applyFeePolicyInput(policy *models.FeePolicy, input FeePolicyInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidFeePolicy)
	}
	policyType := strings.TrimSpace(input.Type)
	if _, ok := validFeePolicyTypes[policyType]; !ok {
		return fmt.Errorf("%w: unsupported type %q", ErrInvalidFeePolicy, policyType)
	}
	if input.BaseRate.IsNegative() || input.BaseRate.GreaterThan(hundred) {
		return fmt.Errorf("%w: baseRate must be between 0 and 100", ErrInvalidFeePolicy)
	}
	if input.MinFee != nil && input.MinFee.IsNegative() {
		return fmt.Errorf("%w: minFee must not be negative", ErrInvalidFeePolicy)
	}
	if input.MaxFee != nil && input.MaxFee.IsNegative() {
		return fmt.Errorf("%w: maxFee must not be negative", ErrInvalidFeePolicy)
	}
	if input.MinFee != nil && input.MaxFee != nil && input.MaxFee.IsPositive() && input.MinFee.GreaterThan(*input.MaxFee) {
		return fmt.Errorf("%w: minFee must not exceed maxFee", ErrInvalidFeePolicy)
	}
	conditions, err := normalizeFeeConditions(input.Conditions)
	if err != nil {
		return err
	}

	policy.Name = name
	policy.Type = policyType
	policy.BaseRate = models.NewRateFromDecimal(input.BaseRate)
	policy.MinFee = optionalMoney(input.MinFee)
	policy.MaxFee = optionalMoney(input.MaxFee)
	if input.IsActive != nil {
		policy.IsActive = *input.IsActive
	}
	policy.Conditions = conditions
	policy.Description = strings.TrimSpace(input.Description)
	policy.SortOrder = input.SortOrder
	return nil
}

func normalizeFeeConditions(conditions []models.FeeCondition) (models.FeeConditions, error) {
	result := make(models.FeeConditions, 0, len(conditions))
	for idx, condition := range conditions {
		condition.Key = strings.TrimSpace(condition.Key)
		condition.Operator = strings.TrimSpace(condition.Operator)
		condition.Label = strings.TrimSpace(condition.Label)
		if _, ok := validFeeConditionKeys[condition.Key]; !ok {
			return nil, fmt.Errorf("%w: conditions[%d] unsupported key %q", ErrInvalidFeePolicy, idx, condition.Key)
		}
		switch condition.Operator {
		case constants.FeeConditionOpEquals:
			if condition.Value == nil {
				return nil, fmt.Errorf("%w: conditions[%d] value is required", ErrInvalidFeePolicy, idx)
			}
		case constants.FeeConditionOpIn, constants.FeeConditionOpNotIn:
			if !isConditionList(condition.Value) {
				return nil, fmt.Errorf("%w: conditions[%d] requires a list value", ErrInvalidFeePolicy, idx)
			}
		case constants.FeeConditionOpGreaterThan, constants.FeeConditionOpLessThan:
			if _, ok := decimalFromValue(condition.Value); !ok {
				return nil, fmt.Errorf("%w: conditions[%d] requires a numeric value", ErrInvalidFeePolicy, idx)
			}
		default:
			return nil, fmt.Errorf("%w: conditions[%d] unsupported operator %q", ErrInvalidFeePolicy, idx, condition.Operator)
		}
		result = append(result, condition)
	}
	return result, nil
}

func isConditionList(raw interface{}) bool {
	switch raw.(type) {
	case []interface{}, []string:
		return true
	default:
		return false
	}
}

func optionalMoney(value *decimal.Decimal) *models.Money {
	if value == nil {
		return nil
	}
	return models.NewMoneyPtr(*value)
}
