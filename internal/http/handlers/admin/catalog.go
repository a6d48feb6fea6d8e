package admin

import (
	"errors"

	"github.com/cellar-market/internal/http/response"
	"github.com/cellar-market/internal/service"

	"github.com/gin-gonic/gin"
)

// ReloadCatalog 重新加载目录文件，失败时旧目录继续生效
func (h *Handler) ReloadCatalog(c *gin.Context) {
	result, err := h.CatalogService.Reload()
	if err != nil {
		if errors.Is(err, service.ErrCatalogReloadOff) {
			respondError(c, response.CodeBadRequest, err.Error(), nil)
			return
		}
		respondError(c, response.CodeInternal, err.Error(), err)
		return
	}
	requestLog(c).Infow("admin_catalog_reloaded", "count", result.Count, "version", result.Version)
	response.Success(c, result)
}
