package shared

import (
	"github.com/homeclean-next/internal/http/response"
	"github.com/homeclean-next/internal/i18n"
	"github.com/homeclean-next/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, kind string, key string, err error, args ...interface{}) {
	locale := i18n.ResolveLocale(c)
	msg := i18n.T(locale, key)
	if len(args) > 0 {
		msg = i18n.Sprintf(locale, key, args...)
	}
	appErr := response.WrapError(kind, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"kind", appErr.Kind,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Kind, appErr.Message)
}
