package service

import "errors"

var (
	ErrNotFound                = errors.New("资源不存在")
	ErrInvalidFeePolicy        = errors.New("费率策略无效")
	ErrFeePolicyNotFound       = errors.New("费率策略不存在")
	ErrInvalidOrderAmount      = errors.New("订单金额无效")
	ErrFeeExceedsOrderAmount   = errors.New("费用超过订单金额")
	ErrInvalidPeriod           = errors.New("结算周期格式无效")
	ErrVendorNotFound          = errors.New("商户不存在")
	ErrSupplierNotFound        = errors.New("供应商不存在")
	ErrCommissionNotFound      = errors.New("佣金记录不存在")
	ErrSettlementNotFound      = errors.New("结算记录不存在")
	ErrInvalidStatusTransition = errors.New("当前状态不允许该操作")
	ErrInvalidPaymentDetails   = errors.New("付款信息无效")
	ErrDisputeReasonRequired   = errors.New("争议原因不能为空")
	ErrDuplicateRecord         = errors.New("记录已存在")
	ErrInvalidChannel          = errors.New("渠道类型无效")
	ErrInvalidOrganization     = errors.New("组织无效")
)
