package i18n

var catalog = map[string]map[string]string{
	LocaleKoKR: {
		"error.bad_request":               "잘못된 요청입니다",
		"error.unauthorized":              "인증이 필요합니다",
		"error.forbidden":                 "접근 권한이 없습니다",
		"error.not_found":                 "리소스를 찾을 수 없습니다",
		"error.conflict":                  "요청이 현재 상태와 충돌합니다",
		"error.too_many_requests":         "요청이 너무 많습니다. 잠시 후 다시 시도해 주세요",
		"error.internal":                  "서버 내부 오류가 발생했습니다",
		"error.token_invalid":             "유효하지 않은 토큰입니다",
		"error.organization_required":     "조직 정보가 필요합니다",
		"error.id_invalid":                "잘못된 ID입니다",
		"error.period_invalid":            "기간 형식은 YYYY-MM 이어야 합니다",
		"error.order_amount_invalid":      "주문 금액이 올바르지 않습니다",
		"error.fee_exceeds_order_amount":  "수수료가 주문 금액을 초과합니다",
		"error.fee_policy_invalid":        "수수료 정책이 올바르지 않습니다",
		"error.fee_policy_not_found":      "수수료 정책을 찾을 수 없습니다",
		"error.vendor_not_found":          "판매자를 찾을 수 없습니다",
		"error.supplier_not_found":        "공급자를 찾을 수 없습니다",
		"error.commission_not_found":      "커미션 내역을 찾을 수 없습니다",
		"error.settlement_not_found":      "정산 내역을 찾을 수 없습니다",
		"error.status_transition_invalid": "현재 상태에서는 처리할 수 없습니다",
		"error.payment_details_invalid":   "지급 정보가 올바르지 않습니다",
		"error.dispute_reason_required":   "이의 제기 사유가 필요합니다",
		"error.duplicate_record":          "이미 존재하는 데이터입니다",
		"error.channel_invalid":           "지원하지 않는 채널 유형입니다",
		"error.channel_exists":            "이미 신청된 채널입니다",
		"error.queue_enqueue_failed":      "작업 등록에 실패했습니다",
		"message.period_close_enqueued":   "기간 마감 작업이 등록되었습니다",
		"message.period_close_completed":  "기간 마감이 완료되었습니다",
		"message.compute_enqueued":        "정산 계산 작업이 등록되었습니다",
		"error.auth_header_missing":       "Authorization 헤더가 없습니다",
		"error.auth_header_invalid":       "Authorization 헤더 형식이 올바르지 않습니다",
		"error.jwt_secret_missing":        "토큰 검증 설정이 누락되었습니다",
		"error.rate_limited":              "요청이 너무 많습니다. %d초 후 다시 시도해 주세요",
		"error.role_immutable":            "기본 역할은 삭제할 수 없습니다",
	},
	LocaleEnUS: {
		"error.bad_request":               "Bad request",
		"error.unauthorized":              "Authentication required",
		"error.forbidden":                 "Access denied",
		"error.not_found":                 "Resource not found",
		"error.conflict":                  "Request conflicts with current state",
		"error.too_many_requests":         "Too many requests, please try again later",
		"error.internal":                  "Internal server error",
		"error.token_invalid":             "Invalid token",
		"error.organization_required":     "Organization is required",
		"error.id_invalid":                "Invalid id",
		"error.period_invalid":            "Period must be in YYYY-MM format",
		"error.order_amount_invalid":      "Invalid order amount",
		"error.fee_exceeds_order_amount":  "Fees exceed the order amount",
		"error.fee_policy_invalid":        "Invalid fee policy",
		"error.fee_policy_not_found":      "Fee policy not found",
		"error.vendor_not_found":          "Vendor not found",
		"error.supplier_not_found":        "Supplier not found",
		"error.commission_not_found":      "Commission not found",
		"error.settlement_not_found":      "Settlement not found",
		"error.status_transition_invalid": "Operation not allowed in current status",
		"error.payment_details_invalid":   "Invalid payment details",
		"error.dispute_reason_required":   "Dispute reason is required",
		"error.duplicate_record":          "Record already exists",
		"error.channel_invalid":           "Unsupported channel type",
		"error.channel_exists":            "Channel already requested",
		"error.queue_enqueue_failed":      "Failed to enqueue task",
		"message.period_close_enqueued":   "Period close task enqueued",
		"message.period_close_completed":  "Period close completed",
		"message.compute_enqueued":        "Settlement compute task enqueued",
		"error.auth_header_missing":       "Authorization header is missing",
		"error.auth_header_invalid":       "Authorization header is malformed",
		"error.jwt_secret_missing":        "Token verification is not configured",
		"error.rate_limited":              "Too many requests, retry in %d seconds",
		"error.role_immutable":            "Builtin roles cannot be deleted",
	},
}
