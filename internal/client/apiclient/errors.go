package apiclient

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/homeclean-next/internal/http/response"
)

var (
	ErrTransport    = errors.New("apiclient: transport failed")
	ErrDecode       = errors.New("apiclient: response decode failed")
	ErrBadRequest   = errors.New("apiclient: bad request")
	ErrValidation   = errors.New("apiclient: validation failed")
	ErrUnauthorized = errors.New("apiclient: unauthorized")
	ErrForbidden    = errors.New("apiclient: forbidden")
	ErrNotFound     = errors.New("apiclient: not found")
	ErrConflict     = errors.New("apiclient: conflict")
	ErrRateLimited  = errors.New("apiclient: rate limited")
	ErrServer       = errors.New("apiclient: server error")
)

var kindErrors = map[string]error{
	response.KindBadRequest:   ErrBadRequest,
	response.KindValidation:   ErrValidation,
	response.KindUnauthorized: ErrUnauthorized,
	response.KindForbidden:    ErrForbidden,
	response.KindNotFound:     ErrNotFound,
	response.KindConflict:     ErrConflict,
	response.KindRateLimited:  ErrRateLimited,
	response.KindInternal:     ErrServer,
}

// APIError 服务端返回的非 2xx 响应
// Kind 取自响应体 code 字段，缺失时按状态码推断
type APIError struct {
	Status    int
	Kind      string
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Kind, msg)
}

// Is 支持 errors.Is(err, ErrConflict) 这类按类型匹配
func (e *APIError) Is(target error) bool {
	sentinel, ok := kindErrors[e.Kind]
	return ok && sentinel == target
}

// Retryable 5xx 视为可重试
func (e *APIError) Retryable() bool {
	return e.Status >= http.StatusInternalServerError
}

// UserMessage 提示给用户的文本：优先使用服务端消息
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}
	return fallback
}
