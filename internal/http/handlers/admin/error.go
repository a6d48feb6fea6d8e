package admin

import (
	"github.com/cellar-market/internal/constants"
	handlershared "github.com/cellar-market/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	log := handlershared.RequestLog(c)
	if operator, ok := handlershared.GetContextString(c, constants.CtxKeyOperator); ok {
		return log.With("operator", operator)
	}
	return log
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}
