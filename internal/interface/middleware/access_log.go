package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-diary/pkg/response"
)

// RequestObserver receives one observation per finished request.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, d time.Duration)
}

// AccessLog logs every request through logrus. Server errors log at error
// level, client errors at warn, the rest at info. Either argument may be nil.
func AccessLog(logger *logrus.Logger, obs RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		took := time.Since(start)
		status := c.Writer.Status()

		if obs != nil {
			obs.ObserveRequest(c.Request.Method, c.FullPath(), status, took)
		}
		if logger == nil {
			return
		}
		entry := logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"latency_ms": took.Milliseconds(),
			"request_id": c.GetString(response.RequestIDKey),
			"ip":         c.GetString("real_ip"),
		})
		if uid := UserID(c); uid != "" {
			entry = entry.WithField("user_id", uid)
		}
		switch {
		case status >= 500:
			entry.Error("request")
		case status >= 400:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}
