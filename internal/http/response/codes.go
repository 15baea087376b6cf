package response

import "net/http"

// 错误类型，客户端按 code 字段区分
const (
	KindBadRequest   = "bad_request"
	KindValidation   = "validation"
	KindUnauthorized = "unauthorized"
	KindForbidden    = "forbidden"
	KindNotFound     = "not_found"
	KindConflict     = "conflict"
	KindRateLimited  = "rate_limited"
	KindInternal     = "internal"
)

var kindStatus = map[string]int{
	KindBadRequest:   http.StatusBadRequest,
	KindValidation:   http.StatusUnprocessableEntity,
	KindUnauthorized: http.StatusUnauthorized,
	KindForbidden:    http.StatusForbidden,
	KindNotFound:     http.StatusNotFound,
	KindConflict:     http.StatusConflict,
	KindRateLimited:  http.StatusTooManyRequests,
	KindInternal:     http.StatusInternalServerError,
}

// StatusForKind 错误类型对应的 HTTP 状态码
func StatusForKind(kind string) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// KindForStatus 按 HTTP 状态码推断错误类型
func KindForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return KindBadRequest
	case http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusTooManyRequests:
		return KindRateLimited
	default:
		if status >= 400 && status < 500 {
			return KindBadRequest
		}
		return KindInternal
	}
}
