package public

import (
	"github.com/cellar-market/internal/http/response"
	"github.com/cellar-market/internal/service"

	"github.com/gin-gonic/gin"
)

// ListWines 分页获取酒款
func (h *Handler) ListWines(c *gin.Context) {
	page, limit := service.ParsePagination(c.Query("page"), c.Query("limit"))
	response.Success(c, h.CatalogService.Paginate(page, limit))
}

// GetWine 按下标或稳定 key 获取酒款
func (h *Handler) GetWine(c *gin.Context) {
	wine, err := h.CatalogService.GetByID(c.Param("id"))
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, wine)
}

// SearchWines 关键字搜索，空关键字返回空数组
func (h *Handler) SearchWines(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		query = c.Query("q")
	}
	response.Success(c, h.CatalogService.Search(query))
}

// FilterWines 按产区、品种、价格区间筛选
func (h *Handler) FilterWines(c *gin.Context) {
	input := service.WineFilterInput{
		Region:   c.Query("region"),
		Variety:  c.Query("variety"),
		MinPrice: service.ParsePriceBound(queryWithAlias(c, "min_price", "minPrice")),
		MaxPrice: service.ParsePriceBound(queryWithAlias(c, "max_price", "maxPrice")),
	}
	response.Success(c, h.CatalogService.Filter(input))
}

// GetRecommendations 获取推荐酒款
func (h *Handler) GetRecommendations(c *gin.Context) {
	response.Success(c, h.CatalogService.Recommend(c.Param("userId")))
}

// GetRegions 获取产区列表
func (h *Handler) GetRegions(c *gin.Context) {
	response.Success(c, h.CatalogService.UniqueRegions())
}

// GetVarieties 获取品种列表
func (h *Handler) GetVarieties(c *gin.Context) {
	response.Success(c, h.CatalogService.UniqueVarieties())
}

func queryWithAlias(c *gin.Context, key, alias string) string {
	if value, ok := c.GetQuery(key); ok {
		return value
	}
	return c.Query(alias)
}
