package shared

import (
	"net/http"

	"github.com/ecofinds/internal/http/response"
	"github.com/ecofinds/internal/i18n"
	"github.com/ecofinds/internal/logger"

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

// Locale 解析请求语言，?lang= 优先于 Accept-Language。
func Locale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return i18n.DefaultLocale
	}
	return i18n.ResolveLocale(c.Query("lang"), c.GetHeader("Accept-Language"))
}

// T 返回当前请求语言的文案。
func T(c *gin.Context, key string, args ...interface{}) string {
	if len(args) > 0 {
		return i18n.Sprintf(Locale(c), key, args...)
	}
	return i18n.T(Locale(c), key)
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, status int, key string, err error) {
	RespondErrorWithMsg(c, status, T(c, key), err)
}

// RespondErrorWithMsg 返回自定义消息错误响应；5xx 记录错误日志，其余仅记录调试日志
func RespondErrorWithMsg(c *gin.Context, status int, msg string, err error) {
	if err != nil {
		log := RequestLog(c).With("status", status, "message", msg, "error", err)
		if status >= http.StatusInternalServerError {
			log.Errorw("handler_error", "path", c.FullPath())
		} else {
			log.Debugw("handler_rejected")
		}
	}
	response.Error(c, status, msg)
}
