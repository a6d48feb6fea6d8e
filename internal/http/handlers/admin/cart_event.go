package admin

import (
	"strings"

	handlershared "github.com/cellar-market/internal/http/handlers/shared"
	"github.com/cellar-market/internal/http/response"
	"github.com/cellar-market/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetCartEvents 分页查看购物车变更审计
func (h *Handler) GetCartEvents(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	filter := repository.CartEventListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   strings.TrimSpace(c.Query("user_id")),
		Action:   strings.TrimSpace(c.Query("action")),
	}

	events, total, err := h.CartEventService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, err.Error(), err)
		return
	}

	response.SuccessWithPage(c, events, response.BuildPagination(page, pageSize, total))
}
