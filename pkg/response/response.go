// Package response writes the JSON envelope every endpoint answers with.
package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key the request id middleware fills.
const RequestIDKey = "request_id"

type APIResponse[T any] struct {
	Status    int        `json:"status"`
	Timestamp time.Time  `json:"timestamp"`
	RequestID string     `json:"request_id"`
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	Data      T          `json:"data,omitempty"`
	Meta      any        `json:"meta,omitempty"`
	Error     *ErrorBody `json:"error,omitempty"`
}

// ErrorBody is the machine readable part of a failed response.
type ErrorBody struct {
	Code    string            `json:"code"`
	Expired *bool             `json:"expired,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

func envelope[T any](c *gin.Context, status int, message string) APIResponse[T] {
	return APIResponse[T]{
		Status:    status,
		Timestamp: time.Now().UTC(),
		RequestID: c.GetString(RequestIDKey),
		Success:   status < http.StatusBadRequest,
		Message:   message,
	}
}

func Success[T any](c *gin.Context, status int, data T, message string, meta any) {
	if status == 0 {
		status = http.StatusOK
	}
	resp := envelope[T](c, status, message)
	resp.Data, resp.Meta = data, meta
	c.JSON(status, resp)
}

// List answers 200 with items and a meta block carrying their count plus any
// extra keys.
func List[T any](c *gin.Context, items []T, message string, extra map[string]any) {
	meta := map[string]any{"count": len(items)}
	for k, v := range extra {
		meta[k] = v
	}
	Success(c, http.StatusOK, items, message, meta)
}

func Error(c *gin.Context, status int, message string, body ErrorBody) {
	c.JSON(status, failure(c, status, message, body))
}

// Abort writes an error response and stops the handler chain.
func Abort(c *gin.Context, status int, message string, body ErrorBody) {
	c.AbortWithStatusJSON(status, failure(c, status, message, body))
}

func failure(c *gin.Context, status int, message string, body ErrorBody) APIResponse[any] {
	resp := envelope[any](c, status, message)
	resp.Error = &body
	return resp
}
