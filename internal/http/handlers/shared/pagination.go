package shared

import (
	"strconv"

	"github.com/cellar-market/internal/constants"

	"github.com/gin-gonic/gin"
)

// NormalizePagination 归一化分页参数。
func NormalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = constants.AdminDefaultPage
	}
	if pageSize <= 0 {
		pageSize = constants.AdminDefaultSize
	}
	if pageSize > constants.AdminMaxPageSize {
		pageSize = constants.AdminMaxPageSize
	}
	return page, pageSize
}

// QueryPagination 读取 page/page_size 查询参数并归一化。
func QueryPagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	return NormalizePagination(page, pageSize)
}
