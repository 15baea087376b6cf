package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Success   bool        `json:"success"`              // 是否成功
	Data      interface{} `json:"data,omitempty"`       // 数据内容
	Message   string      `json:"message,omitempty"`    // 错误提示
	Code      string      `json:"code,omitempty"`       // 错误类型
	RequestID string      `json:"request_id,omitempty"` // 请求 ID
}

// PageResponse 分页响应结构
type PageResponse struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// Pagination 分页信息
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"total_page"`
}

// BuildPagination 生成分页信息
func BuildPagination(page, pageSize int, total int64) Pagination {
	totalPage := int64(0)
	if pageSize > 0 {
		totalPage = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return Pagination{Page: page, PageSize: pageSize, Total: total, TotalPage: totalPage}
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, data interface{}, pagination Pagination) {
	c.JSON(http.StatusOK, PageResponse{
		Success:    true,
		Data:       data,
		Pagination: pagination,
	})
}

// Error 错误响应，HTTP 状态码由错误类型决定
func Error(c *gin.Context, kind string, msg string) {
	c.JSON(StatusForKind(kind), buildErrorBody(c, kind, msg))
}

// AbortError 中断后续处理并返回错误
func AbortError(c *gin.Context, kind string, msg string) {
	c.AbortWithStatusJSON(StatusForKind(kind), buildErrorBody(c, kind, msg))
}

// NotFound 404响应
func NotFound(c *gin.Context, msg string) {
	Error(c, KindNotFound, msg)
}

// Unauthorized 401响应
func Unauthorized(c *gin.Context, msg string) {
	Error(c, KindUnauthorized, msg)
}

// BadRequest 400响应
func BadRequest(c *gin.Context, msg string) {
	Error(c, KindBadRequest, msg)
}

func buildErrorBody(c *gin.Context, kind, msg string) Response {
	return Response{
		Success:   false,
		Message:   msg,
		Code:      kind,
		RequestID: requestIDFromContext(c),
	}
}

func requestIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if value, ok := c.Get("request_id"); ok {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}
