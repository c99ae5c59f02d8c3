package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// FieldError 字段级校验错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorBody 错误响应结构
type ErrorBody struct {
	Message   string       `json:"message"`
	Errors    []FieldError `json:"errors,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
}

// Success 成功响应，payload 平铺在 success 字段旁
func Success(c *gin.Context, payload gin.H) {
	write(c, http.StatusOK, payload)
}

// Created 创建成功响应
func Created(c *gin.Context, payload gin.H) {
	write(c, http.StatusCreated, payload)
}

// Message 仅带提示消息的成功响应
func Message(c *gin.Context, msg string) {
	write(c, http.StatusOK, gin.H{"message": msg})
}

// Error 错误响应
func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, ErrorBody{
		Message:   msg,
		RequestID: requestID(c),
	})
}

// ValidationError 校验失败响应
func ValidationError(c *gin.Context, msg string, errs []FieldError) {
	c.JSON(http.StatusBadRequest, ErrorBody{
		Message:   msg,
		Errors:    errs,
		RequestID: requestID(c),
	})
}

// Abort 错误响应并中断后续处理
func Abort(c *gin.Context, status int, msg string) {
	Error(c, status, msg)
	c.Abort()
}

func write(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		if k == "success" {
			continue
		}
		body[k] = v
	}
	c.JSON(status, body)
}

func requestID(c *gin.Context) string {
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
