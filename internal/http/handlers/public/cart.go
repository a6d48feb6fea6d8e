package public

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/cellar-market/internal/http/response"

	"github.com/gin-gonic/gin"
)

var errWineRefInvalid = errors.New("wine_id must be an integer index or a string key")

// wineRef 兼容数字下标与字符串 key 两种写法
type wineRef string

// UnmarshalJSON 接受 0、"0" 与 "wine-key"，拒绝小数与其他类型
func (r *wineRef) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = wineRef(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errWineRefInvalid
	}
	if _, err := n.Int64(); err != nil {
		return errWineRefInvalid
	}
	*r = wineRef(n.String())
	return nil
}

// AddCartItemRequest 加入购物车请求，quantity 缺省为 1
type AddCartItemRequest struct {
	WineID      wineRef `json:"wine_id"`
	WineIDCamel wineRef `json:"wineId"`
	Quantity    *int    `json:"quantity"`
}

func (r AddCartItemRequest) wineID() string {
	if r.WineID != "" {
		return string(r.WineID)
	}
	return string(r.WineIDCamel)
}

// UpdateCartItemRequest 修改数量请求
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity"`
}

// GetCart 获取购物车及实时汇总
func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.CartService.GetWithTotals(c.Param("userId"))
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, cart)
}

// AddCartItem 加入购物车
func (h *Handler) AddCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}
	wineID := req.wineID()
	if wineID == "" {
		respondError(c, response.CodeBadRequest, "wine_id is required", nil)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	cart, err := h.CartService.AddItem(c.Param("userId"), wineID, quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, cart)
}

// UpdateCartItem 修改购物车项数量，数量小于等于 0 时移除
func (h *Handler) UpdateCartItem(c *gin.Context) {
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}
	if req.Quantity == nil {
		respondError(c, response.CodeBadRequest, "quantity is required", nil)
		return
	}

	cart, err := h.CartService.UpdateItem(c.Param("userId"), c.Param("wineId"), *req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, cart)
}

// RemoveCartItem 移除购物车项
func (h *Handler) RemoveCartItem(c *gin.Context) {
	cart, err := h.CartService.RemoveItem(c.Param("userId"), c.Param("wineId"))
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, cart)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	cart, err := h.CartService.Clear(c.Param("userId"))
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, cart)
}
