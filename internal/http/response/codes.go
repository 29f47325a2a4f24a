package response

const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeConflict        = 409
	CodeTooManyRequests = 429
	CodeInternal        = 500
)

// 对外错误分类
const (
	ErrorCodeValidation   = "VALIDATION_ERROR"
	ErrorCodeUnauthorized = "UNAUTHORIZED"
	ErrorCodeForbidden    = "FORBIDDEN"
	ErrorCodeNotFound     = "NOT_FOUND"
	ErrorCodeConflict     = "CONFLICT"
	ErrorCodeRateLimited  = "RATE_LIMITED"
	ErrorCodeInternal     = "INTERNAL_ERROR"
)

// ErrorCodeFor 根据业务状态码推导错误分类
func ErrorCodeFor(code int) string {
	switch code {
	case CodeBadRequest:
		return ErrorCodeValidation
	case CodeUnauthorized:
		return ErrorCodeUnauthorized
	case CodeForbidden:
		return ErrorCodeForbidden
	case CodeNotFound:
		return ErrorCodeNotFound
	case CodeConflict:
		return ErrorCodeConflict
	case CodeTooManyRequests:
		return ErrorCodeRateLimited
	default:
		return ErrorCodeInternal
	}
}

// httpStatusFor 错误响应的 HTTP 状态与业务状态码保持一致
func httpStatusFor(code int) int {
	if code >= 400 && code < 600 {
		return code
	}
	return CodeInternal
}
