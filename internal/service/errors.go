package service

import "errors"

// 通用
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// 用户与认证
var (
	ErrInvalidEmail       = errors.New("invalid email")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("user disabled")
	ErrWeakPassword       = errors.New("password does not satisfy policy")
	ErrTokenInvalid       = errors.New("token invalid")
)

// 服务目录
var (
	ErrServiceNotFound       = errors.New("service not found")
	ErrServiceUnavailable    = errors.New("service unavailable")
	ErrVariantNotFound       = errors.New("service variant not found")
	ErrMeasurementRequired   = errors.New("measurement required")
	ErrMeasurementOutOfRange = errors.New("measurement out of range")
)

// 购物车
var (
	ErrCartItemNotFound    = errors.New("cart item not found")
	ErrCartItemExists      = errors.New("service already in cart")
	ErrCartQuantityInvalid = errors.New("cart quantity invalid")
	ErrCartPriceMismatch   = errors.New("calculated price mismatch")
)

// 预约
var (
	ErrBookingNotFound       = errors.New("booking not found")
	ErrBookingDateInvalid    = errors.New("booking date invalid")
	ErrBookingTimeInvalid    = errors.New("booking time invalid")
	ErrBookingDatePast       = errors.New("booking date in the past")
	ErrBookingDateTooFar     = errors.New("booking date too far ahead")
	ErrBookingAmountInvalid  = errors.New("booking amount invalid")
	ErrBookingContactInvalid = errors.New("booking contact invalid")
	ErrBookingNotCancellable = errors.New("booking not cancellable")
)

// 通知
var (
	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
	ErrWhatsAppDisabled          = errors.New("whatsapp disabled")
	ErrWhatsAppNotConfigured     = errors.New("whatsapp not configured")
	ErrWhatsAppSendFailed        = errors.New("whatsapp send failed")
	ErrNotificationInvalid       = errors.New("notification payload invalid")
)
