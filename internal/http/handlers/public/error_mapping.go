package public

import (
	handlershared "github.com/cellar-market/internal/http/handlers/shared"
	"github.com/cellar-market/internal/http/response"
	"github.com/cellar-market/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError = handlershared.ErrorRule

// respondWithMappedError 未命中规则的错误统一按 500 返回原始信息。
func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError) {
	handlershared.RespondMappedError(c, err, rules, response.CodeInternal)
}

var catalogErrorRules = []mappedHandlerError{
	{Target: service.ErrNotFound, Code: response.CodeNotFound},
}

var cartErrorRules = []mappedHandlerError{
	{Target: service.ErrInvalidUserID, Code: response.CodeBadRequest},
	{Target: service.ErrInvalidWineID, Code: response.CodeBadRequest},
	{Target: service.ErrInvalidQuantity, Code: response.CodeBadRequest},
	{Target: service.ErrNotFound, Code: response.CodeNotFound},
}

var userErrorRules = []mappedHandlerError{
	{Target: service.ErrInvalidEmail, Code: response.CodeBadRequest},
	{Target: service.ErrWeakPassword, Code: response.CodeBadRequest},
	{Target: service.ErrInvalidWineID, Code: response.CodeBadRequest},
	{Target: service.ErrEmailExists, Code: response.CodeConflict},
	{Target: service.ErrNotFound, Code: response.CodeNotFound},
}

func respondCatalogError(c *gin.Context, err error) {
	respondWithMappedError(c, err, catalogErrorRules)
}

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartErrorRules)
}

func respondUserError(c *gin.Context, err error) {
	respondWithMappedError(c, err, userErrorRules)
}
