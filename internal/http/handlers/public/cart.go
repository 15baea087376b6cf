package public

import (
	handlershared "github.com/homeclean-next/internal/http/handlers/shared"
	"github.com/homeclean-next/internal/http/response"
	"github.com/homeclean-next/internal/models"
	"github.com/homeclean-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加入购物车请求
type AddCartItemRequest struct {
	ServiceID       uint          `json:"service_id" binding:"required"`
	VariantID       *uint         `json:"variant_id"`
	Quantity        int           `json:"quantity"`
	CalculatedPrice *models.Money `json:"calculated_price"`
	UserInputs      models.JSON   `json:"user_inputs"`
}

// UpdateCartItemRequest 更新购物车项请求，字段为空时保持不变
type UpdateCartItemRequest struct {
	Quantity   *int        `json:"quantity"`
	UserInputs models.JSON `json:"user_inputs"`
}

// ListCartItems 获取购物车
func (h *Handler) ListCartItems(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	items, err := h.CartService.ListByUser(uid)
	if err != nil {
		respondCartError(c, err, "error.cart_fetch_failed")
		return
	}
	response.Success(c, items)
}

// GetCartSummary 购物车汇总
func (h *Handler) GetCartSummary(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	summary, err := h.CartService.Summary(uid)
	if err != nil {
		respondCartError(c, err, "error.cart_fetch_failed")
		return
	}
	response.Success(c, summary)
}

// AddCartItem 加入购物车，同一服务重复加入返回 conflict
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.KindBadRequest, "error.bad_request", nil)
		return
	}
	item, err := h.CartService.AddItem(service.AddCartItemInput{
		UserID:          uid,
		ServiceID:       req.ServiceID,
		VariantID:       req.VariantID,
		Quantity:        req.Quantity,
		CalculatedPrice: req.CalculatedPrice,
		UserInputs:      req.UserInputs,
	})
	if err != nil {
		respondCartError(c, err, "error.cart_update_failed")
		return
	}
	response.Created(c, item)
}

// UpdateCartItem 更新购物车项
func (h *Handler) UpdateCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	itemID, ok := handlershared.ParseUintParam(c, "id", "error.cart_item_not_found")
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.KindBadRequest, "error.bad_request", nil)
		return
	}
	item, err := h.CartService.UpdateItem(service.UpdateCartItemInput{
		UserID:     uid,
		ItemID:     itemID,
		Quantity:   req.Quantity,
		UserInputs: req.UserInputs,
	})
	if err != nil {
		respondCartError(c, err, "error.cart_update_failed")
		return
	}
	response.Success(c, item)
}

// RemoveCartItem 删除购物车项
func (h *Handler) RemoveCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	itemID, ok := handlershared.ParseUintParam(c, "id", "error.cart_item_not_found")
	if !ok {
		return
	}
	if err := h.CartService.RemoveItem(uid, itemID); err != nil {
		respondCartError(c, err, "error.cart_update_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.CartService.Clear(uid); err != nil {
		respondCartError(c, err, "error.cart_update_failed")
		return
	}
	response.Success(c, gin.H{"cleared": true})
}
