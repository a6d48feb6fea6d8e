package shared

import (
	"errors"

	"github.com/cellar-market/internal/http/response"
	"github.com/cellar-market/internal/logger"

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

// RespondError 返回错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// ErrorRule 业务错误到接口响应码的映射；Msg 为空时直接使用错误文本
type ErrorRule struct {
	Target error
	Code   int
	Msg    string
}

// RespondMappedError 按规则表输出错误，未命中的错误按 fallbackCode 返回原始错误信息并记录日志。
func RespondMappedError(c *gin.Context, err error, rules []ErrorRule, fallbackCode int) {
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			msg := rule.Msg
			if msg == "" {
				msg = err.Error()
			}
			RespondError(c, rule.Code, msg, nil)
			return
		}
	}
	RespondError(c, fallbackCode, err.Error(), err)
}
