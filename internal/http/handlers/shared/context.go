package shared

import (
	"strconv"
	"strings"

	"github.com/cellar-market/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetContextString 读取中间件写入的字符串上下文值。
func GetContextString(c *gin.Context, key string) (string, bool) {
	value, exists := c.Get(key)
	if !exists {
		return "", false
	}
	str, ok := value.(string)
	if !ok || str == "" {
		return "", false
	}
	return str, true
}

// ParseUintParam 解析路径中的正整数 ID，非法时直接写 400 响应。
func ParseUintParam(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		RespondError(c, response.CodeBadRequest, name+" must be a positive integer", nil)
		return 0, false
	}
	return uint(id), true
}
