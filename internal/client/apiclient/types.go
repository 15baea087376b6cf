package apiclient

import (
	"time"

	"github.com/homeclean-next/internal/models"
)

// UserProfile 当前用户
type UserProfile struct {
	ID          uint       `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Phone       string     `json:"phone"`
	Locale      string     `json:"locale"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

// AuthResult 登录或注册结果
type AuthResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      UserProfile `json:"user"`
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

// CartSummary 购物车汇总
type CartSummary struct {
	TotalItems int          `json:"total_items"`
	TotalPrice models.Money `json:"total_price"`
}

// AddCartItemRequest 加入购物车
type AddCartItemRequest struct {
	ServiceID       uint          `json:"service_id"`
	VariantID       *uint         `json:"variant_id,omitempty"`
	Quantity        int           `json:"quantity"`
	CalculatedPrice *models.Money `json:"calculated_price,omitempty"`
	UserInputs      models.JSON   `json:"user_inputs"`
}

// UpdateCartItemRequest 更新购物车项，nil 字段不修改
type UpdateCartItemRequest struct {
	Quantity   *int        `json:"quantity,omitempty"`
	UserInputs models.JSON `json:"user_inputs,omitempty"`
}

// CreateBookingRequest 创建预约，携带购物车行的冗余快照
type CreateBookingRequest struct {
	ServiceID       uint         `json:"service_id"`
	VariantID       *uint        `json:"variant_id,omitempty"`
	ServiceTitle    string       `json:"service_title"`
	BookingDate     string       `json:"booking_date"`
	BookingTime     string       `json:"booking_time"`
	DurationMinutes int          `json:"duration_minutes"`
	CustomerName    string       `json:"customer_name"`
	CustomerEmail   string       `json:"customer_email"`
	CustomerPhone   string       `json:"customer_phone"`
	Address         string       `json:"address"`
	Quantity        int          `json:"quantity"`
	UserInputs      models.JSON  `json:"user_inputs,omitempty"`
	TotalAmount     models.Money `json:"total_amount"`
	Notes           string       `json:"notes,omitempty"`
	ClientRef       string       `json:"client_ref,omitempty"`
}
