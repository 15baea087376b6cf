package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/homeclean-next/internal/models"
)

// Register 注册
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login 登录
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me 当前用户
func (c *Client) Me(ctx context.Context) (*UserProfile, error) {
	var out UserProfile
	if err := c.do(ctx, http.MethodGet, "/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListServices 服务目录
func (c *Client) ListServices(ctx context.Context) ([]models.Service, error) {
	var out []models.Service
	if err := c.do(ctx, http.MethodGet, "/services", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Service{}
	}
	return out, nil
}

// SearchServices 按分类或关键字过滤服务
func (c *Client) SearchServices(ctx context.Context, category, search string) ([]models.Service, error) {
	query := url.Values{}
	if category != "" {
		query.Set("category", category)
	}
	if search != "" {
		query.Set("search", search)
	}
	path := "/services"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var out []models.Service
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Service{}
	}
	return out, nil
}

// GetService 服务详情
func (c *Client) GetService(ctx context.Context, id uint) (*models.Service, error) {
	var out models.Service
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/services/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListCartItems 购物车项
func (c *Client) ListCartItems(ctx context.Context) ([]models.CartItem, error) {
	var out []models.CartItem
	if err := c.do(ctx, http.MethodGet, "/cart/items", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.CartItem{}
	}
	return out, nil
}

// GetCartSummary 购物车汇总
func (c *Client) GetCartSummary(ctx context.Context) (*CartSummary, error) {
	var out CartSummary
	if err := c.do(ctx, http.MethodGet, "/cart/summary", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddCartItem 加入购物车
func (c *Client) AddCartItem(ctx context.Context, req AddCartItemRequest) (*models.CartItem, error) {
	var out models.CartItem
	if err := c.do(ctx, http.MethodPost, "/cart/items", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCartItem 更新购物车项
func (c *Client) UpdateCartItem(ctx context.Context, id uint, req UpdateCartItemRequest) (*models.CartItem, error) {
	var out models.CartItem
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/cart/items/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveCartItem 删除购物车项
func (c *Client) RemoveCartItem(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/cart/items/%d", id), nil, nil)
}

// ClearCart 清空购物车
func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/cart/clear", nil, nil)
}

// CreateBooking 创建一条预约
func (c *Client) CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.ServiceBooking, error) {
	var out models.ServiceBooking
	if err := c.do(ctx, http.MethodPost, "/service-bookings", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListBookings 我的预约
func (c *Client) ListBookings(ctx context.Context) ([]models.ServiceBooking, error) {
	var out []models.ServiceBooking
	if err := c.do(ctx, http.MethodGet, "/service-bookings", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.ServiceBooking{}
	}
	return out, nil
}

// GetBooking 预约详情
func (c *Client) GetBooking(ctx context.Context, id uint) (*models.ServiceBooking, error) {
	var out models.ServiceBooking
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/service-bookings/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelBooking 取消预约
func (c *Client) CancelBooking(ctx context.Context, id uint) (*models.ServiceBooking, error) {
	var out models.ServiceBooking
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/service-bookings/%d/cancel", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
