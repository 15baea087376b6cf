package public

import "github.com/homeclean-next/internal/provider"

// Handler 前台接口处理器入口
// 说明：服务目录、用户认证、购物车与预约接口共用同一处理器。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
