package public

import (
	handlershared "github.com/homeclean-next/internal/http/handlers/shared"
	"github.com/homeclean-next/internal/http/response"
	"github.com/homeclean-next/internal/i18n"
	"github.com/homeclean-next/internal/models"
	"github.com/homeclean-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateBookingRequest 创建预约请求
// 服务标题、时长与金额由客户端从购物车行冗余提交
type CreateBookingRequest struct {
	ServiceID       uint         `json:"service_id" binding:"required"`
	VariantID       *uint        `json:"variant_id"`
	ServiceTitle    string       `json:"service_title"`
	BookingDate     string       `json:"booking_date" binding:"required"`
	BookingTime     string       `json:"booking_time" binding:"required"`
	DurationMinutes int          `json:"duration_minutes"`
	CustomerName    string       `json:"customer_name" binding:"required"`
	CustomerEmail   string       `json:"customer_email" binding:"required"`
	CustomerPhone   string       `json:"customer_phone" binding:"required"`
	Address         string       `json:"address" binding:"required"`
	Quantity        int          `json:"quantity"`
	UserInputs      models.JSON  `json:"user_inputs"`
	TotalAmount     models.Money `json:"total_amount"`
	Notes           string       `json:"notes"`
	ClientRef       string       `json:"client_ref"`
}

// CreateBooking 创建预约（一次一条）
func (h *Handler) CreateBooking(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.KindBadRequest, "error.bad_request", nil)
		return
	}
	booking, err := h.BookingService.Create(c.Request.Context(), service.CreateBookingInput{
		UserID:          uid,
		ServiceID:       req.ServiceID,
		VariantID:       req.VariantID,
		ServiceTitle:    req.ServiceTitle,
		BookingDate:     req.BookingDate,
		BookingTime:     req.BookingTime,
		DurationMinutes: req.DurationMinutes,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		Address:         req.Address,
		Quantity:        req.Quantity,
		UserInputs:      req.UserInputs,
		TotalAmount:     req.TotalAmount,
		Notes:           req.Notes,
		ClientRef:       req.ClientRef,
		Locale:          i18n.ResolveLocale(c),
	})
	if err != nil {
		respondBookingError(c, err, "error.booking_create_failed")
		return
	}
	response.Created(c, booking)
}

// ListBookings 我的预约列表
func (h *Handler) ListBookings(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)

	bookings, total, err := h.BookingService.List(service.BookingListInput{
		UserID:   uid,
		Status:   c.Query("status"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondBookingError(c, err, "error.booking_fetch_failed")
		return
	}
	response.SuccessWithPage(c, bookings, response.BuildPagination(page, pageSize, total))
}

// GetBooking 预约详情
func (h *Handler) GetBooking(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseUintParam(c, "id", "error.booking_not_found")
	if !ok {
		return
	}
	booking, err := h.BookingService.Get(uid, id)
	if err != nil {
		respondBookingError(c, err, "error.booking_fetch_failed")
		return
	}
	response.Success(c, booking)
}

// CancelBooking 取消预约
func (h *Handler) CancelBooking(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseUintParam(c, "id", "error.booking_not_found")
	if !ok {
		return
	}
	booking, err := h.BookingService.Cancel(c.Request.Context(), uid, id, i18n.ResolveLocale(c))
	if err != nil {
		respondBookingError(c, err, "error.booking_fetch_failed")
		return
	}
	response.Success(c, booking)
}
