package shared

import (
	"github.com/o4o-platform/settlement/internal/http/response"
	"github.com/o4o-platform/settlement/internal/i18n"
	"github.com/o4o-platform/settlement/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 带 request_id 的请求级日志
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if id := c.GetString(ContextKeyRequestID); id != "" {
		return logger.SW("request_id", id)
	}
	return logger.S()
}

// RespondError 按 Accept-Language 翻译 key 后写入错误响应
// 5xx 的原始错误只进日志，不回传给调用方
func RespondError(c *gin.Context, code int, key string, err error) {
	msg := i18n.T(i18n.ResolveLocale(c), key)
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		log := RequestLog(c).With("code", appErr.Code, "error_code", appErr.ErrorCode(), "error", err)
		if appErr.Code >= response.CodeInternal {
			log.Errorw("handler_internal_error", "path", c.FullPath())
		} else {
			log.Warnw("handler_client_error", "path", c.FullPath())
		}
	}
	response.Error(c, appErr.Code, appErr.Message)
}
