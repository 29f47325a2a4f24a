package admin

import "github.com/o4o-platform/settlement/internal/provider"

// Handler 结算后台接口处理器入口
// 说明：该处理器仅用于 /settlements 管理端 API。
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
