package admin

import (
	handlershared "github.com/o4o-platform/settlement/internal/http/handlers/shared"
	"github.com/o4o-platform/settlement/internal/http/response"
	"github.com/o4o-platform/settlement/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

var feePolicyErrorRules = []handlershared.MappedHandlerError{
	{Target: service.ErrInvalidFeePolicy, Code: response.CodeBadRequest, Key: "error.fee_policy_invalid"},
	{Target: service.ErrFeePolicyNotFound, Code: response.CodeNotFound, Key: "error.fee_policy_not_found"},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.fee_policy_not_found"},
}

var calculateFeeErrorRules = []handlershared.MappedHandlerError{
	{Target: service.ErrInvalidOrderAmount, Code: response.CodeBadRequest, Key: "error.order_amount_invalid"},
	{Target: service.ErrFeeExceedsOrderAmount, Code: response.CodeBadRequest, Key: "error.fee_exceeds_order_amount"},
}

var settlementCommonErrorRules = []handlershared.MappedHandlerError{
	{Target: service.ErrInvalidPeriod, Code: response.CodeBadRequest, Key: "error.period_invalid"},
	{Target: service.ErrInvalidPaymentDetails, Code: response.CodeBadRequest, Key: "error.payment_details_invalid"},
	{Target: service.ErrDisputeReasonRequired, Code: response.CodeBadRequest, Key: "error.dispute_reason_required"},
	{Target: service.ErrInvalidStatusTransition, Code: response.CodeConflict, Key: "error.status_transition_invalid"},
	{Target: service.ErrDuplicateRecord, Code: response.CodeConflict, Key: "error.duplicate_record"},
}

var vendorCommissionErrorRules = []handlershared.MappedHandlerError{
	{Target: service.ErrVendorNotFound, Code: response.CodeNotFound, Key: "error.vendor_not_found"},
	{Target: service.ErrCommissionNotFound, Code: response.CodeNotFound, Key: "error.commission_not_found"},
}

var supplierSettlementErrorRules = []handlershared.MappedHandlerError{
	{Target: service.ErrSupplierNotFound, Code: response.CodeNotFound, Key: "error.supplier_not_found"},
	{Target: service.ErrSettlementNotFound, Code: response.CodeNotFound, Key: "error.settlement_not_found"},
}

func respondFeePolicyError(c *gin.Context, err error) {
	handlershared.RespondWithMappedError(c, err, feePolicyErrorRules, response.CodeInternal, "error.internal")
}

func respondCalculateFeeError(c *gin.Context, err error) {
	handlershared.RespondWithMappedError(c, err, calculateFeeErrorRules, response.CodeInternal, "error.internal")
}

func respondVendorCommissionError(c *gin.Context, err error) {
	handlershared.RespondWithMappedError(c, err, handlershared.ConcatMappedHandlerErrors(settlementCommonErrorRules, vendorCommissionErrorRules), response.CodeInternal, "error.internal")
}

func respondSupplierSettlementError(c *gin.Context, err error) {
	handlershared.RespondWithMappedError(c, err, handlershared.ConcatMappedHandlerErrors(settlementCommonErrorRules, supplierSettlementErrorRules), response.CodeInternal, "error.internal")
}

func respondPeriodCloseError(c *gin.Context, err error) {
	handlershared.RespondWithMappedError(c, err, settlementCommonErrorRules, response.CodeInternal, "error.queue_enqueue_failed")
}
