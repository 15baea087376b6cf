package public

import (
	"errors"

	"github.com/homeclean-next/internal/http/response"
	"github.com/homeclean-next/internal/pricing"
	"github.com/homeclean-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	kind   string
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackKind string, fallbackKey string) {
	if respondWithDetailedError(c, err) {
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.kind, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackKind, fallbackKey, err)
}

// respondWithDetailedError 处理需要带参数渲染文案的错误
func respondWithDetailedError(c *gin.Context, err error) bool {
	var bounds *pricing.BoundsError
	if errors.As(err, &bounds) {
		respondError(c, response.KindValidation, "error.measurement_out_of_range", nil, bounds.MinString(), bounds.MaxString())
		return true
	}
	var policy service.PasswordPolicyError
	if errors.As(err, &policy) {
		respondError(c, response.KindValidation, policy.Key(), nil, policy.Args()...)
		return true
	}
	return false
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var authErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidEmail, kind: response.KindValidation, key: "error.email_invalid"},
	{target: service.ErrWeakPassword, kind: response.KindValidation, key: "error.password_policy"},
	{target: service.ErrEmailExists, kind: response.KindConflict, key: "error.user_exists"},
	{target: service.ErrInvalidCredentials, kind: response.KindUnauthorized, key: "error.login_invalid"},
	{target: service.ErrUserDisabled, kind: response.KindForbidden, key: "error.user_disabled"},
	{target: service.ErrNotFound, kind: response.KindNotFound, key: "error.not_found"},
}

var catalogErrorRules = []mappedHandlerError{
	{target: service.ErrServiceNotFound, kind: response.KindNotFound, key: "error.service_not_found"},
	{target: service.ErrServiceUnavailable, kind: response.KindNotFound, key: "error.service_unavailable"},
	{target: service.ErrVariantNotFound, kind: response.KindNotFound, key: "error.variant_not_found"},
	{target: service.ErrMeasurementRequired, kind: response.KindValidation, key: "error.measurement_required"},
	{target: service.ErrMeasurementOutOfRange, kind: response.KindValidation, key: "error.validation"},
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrCartItemExists, kind: response.KindConflict, key: "error.cart_item_exists"},
	{target: service.ErrCartItemNotFound, kind: response.KindNotFound, key: "error.cart_item_not_found"},
	{target: service.ErrCartQuantityInvalid, kind: response.KindValidation, key: "error.cart_quantity_invalid"},
	{target: service.ErrCartPriceMismatch, kind: response.KindConflict, key: "error.cart_price_mismatch"},
	{target: service.ErrInvalidInput, kind: response.KindBadRequest, key: "error.bad_request"},
}

var bookingErrorRules = []mappedHandlerError{
	{target: service.ErrBookingNotFound, kind: response.KindNotFound, key: "error.booking_not_found"},
	{target: service.ErrBookingDateInvalid, kind: response.KindValidation, key: "error.booking_date_invalid"},
	{target: service.ErrBookingTimeInvalid, kind: response.KindValidation, key: "error.booking_time_invalid"},
	{target: service.ErrBookingDatePast, kind: response.KindValidation, key: "error.booking_date_past"},
	{target: service.ErrBookingDateTooFar, kind: response.KindValidation, key: "error.booking_date_too_far"},
	{target: service.ErrBookingAmountInvalid, kind: response.KindValidation, key: "error.booking_amount_invalid"},
	{target: service.ErrBookingContactInvalid, kind: response.KindValidation, key: "error.booking_contact_invalid"},
	{target: service.ErrBookingNotCancellable, kind: response.KindConflict, key: "error.booking_not_cancellable"},
	{target: service.ErrInvalidInput, kind: response.KindBadRequest, key: "error.bad_request"},
}

func respondAuthError(c *gin.Context, err error, fallbackKey string) {
	respondWithMappedError(c, err, authErrorRules, response.KindInternal, fallbackKey)
}

func respondCatalogError(c *gin.Context, err error) {
	respondWithMappedError(c, err, catalogErrorRules, response.KindInternal, "error.service_fetch_failed")
}

func respondCartError(c *gin.Context, err error, fallbackKey string) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(cartErrorRules, catalogErrorRules), response.KindInternal, fallbackKey)
}

func respondBookingError(c *gin.Context, err error, fallbackKey string) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(bookingErrorRules, catalogErrorRules), response.KindInternal, fallbackKey)
}
