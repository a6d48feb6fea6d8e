package public

import (
	"github.com/cellar-market/internal/http/response"
	"github.com/cellar-market/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterUserRequest 注册请求
type RegisterUserRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
	Locale      string `json:"locale"`
}

// UpdateUserRequest 资料更新请求，缺省字段保持不变
type UpdateUserRequest struct {
	DisplayName *string `json:"display_name"`
	Locale      *string `json:"locale"`
}

// SaveWineRequest 收藏请求
type SaveWineRequest struct {
	WineID wineRef `json:"wine_id"`
}

// RegisterUser 注册用户
func (h *Handler) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}
	user, err := h.UserService.Register(service.RegisterUserInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Locale:      req.Locale,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}
	response.Success(c, user)
}

// GetUser 获取用户资料
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := parseUserIDParam(c)
	if !ok {
		return
	}
	user, err := h.UserService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondUserError(c, err)
		return
	}
	response.Success(c, user)
}

// UpdateUser 更新用户资料
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := parseUserIDParam(c)
	if !ok {
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}
	user, err := h.UserService.UpdateProfile(c.Request.Context(), id, service.UpdateProfileInput{
		DisplayName: req.DisplayName,
		Locale:      req.Locale,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}
	response.Success(c, user)
}

// ListSavedWines 获取收藏列表
func (h *Handler) ListSavedWines(c *gin.Context) {
	id, ok := parseUserIDParam(c)
	if !ok {
		return
	}
	items, err := h.SavedWineService.List(c.Request.Context(), id)
	if err != nil {
		respondUserError(c, err)
		return
	}
	response.Success(c, items)
}

// SaveWine 收藏酒款
func (h *Handler) SaveWine(c *gin.Context) {
	id, ok := parseUserIDParam(c)
	if !ok {
		return
	}
	var req SaveWineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}
	if req.WineID == "" {
		respondError(c, response.CodeBadRequest, "wine_id is required", nil)
		return
	}
	saved, err := h.SavedWineService.Save(c.Request.Context(), id, string(req.WineID))
	if err != nil {
		respondUserError(c, err)
		return
	}
	response.Success(c, saved)
}

// RemoveSavedWine 取消收藏
func (h *Handler) RemoveSavedWine(c *gin.Context) {
	id, ok := parseUserIDParam(c)
	if !ok {
		return
	}
	if err := h.SavedWineService.Remove(id, c.Param("wineKey")); err != nil {
		respondUserError(c, err)
		return
	}
	response.Success(c, gin.H{"wine_key": c.Param("wineKey")})
}
