package admin

import "github.com/cellar-market/internal/provider"

// Handler 后台管理接口处理器入口
// 说明：该处理器仅用于运维管理 API，访问前需通过令牌与权限校验。
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
