package public

import (
	handlershared "github.com/homeclean-next/internal/http/handlers/shared"
	"github.com/homeclean-next/internal/http/response"
	"github.com/homeclean-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListServices 上架服务列表，支持 category 与 search 过滤
func (h *Handler) ListServices(c *gin.Context) {
	services, err := h.CatalogService.List(c.Request.Context(), service.CatalogListInput{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	})
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, services)
}

// GetService 服务详情
func (h *Handler) GetService(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id", "error.service_not_found")
	if !ok {
		return
	}
	svc, err := h.CatalogService.Get(id)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, svc)
}
