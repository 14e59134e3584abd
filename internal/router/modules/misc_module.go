package modules

import (
	"net/http"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-diary/internal/interface/http"
)

type ReminderModule struct {
	Handler *handlers.ReminderHandler
	Gate    gin.HandlerFunc
}

func NewReminderModule(h *handlers.ReminderHandler, gate gin.HandlerFunc) *ReminderModule {
	return &ReminderModule{Handler: h, Gate: gate}
}

func (m *ReminderModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/reminders", m.Gate)
	g.GET("/today", m.Handler.Today)
	g.PATCH("/:id/seen", m.Handler.Seen)
}

// PublicModule holds the unauthenticated read-only routes.
type PublicModule struct {
	Quotes *handlers.QuoteHandler
}

func NewPublicModule(q *handlers.QuoteHandler) *PublicModule {
	return &PublicModule{Quotes: q}
}

func (m *PublicModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", handlers.Health)
	rg.GET("/quotes/today", m.Quotes.Today)
}

// MetricsModule exposes Prometheus metrics.
type MetricsModule struct {
	Handler http.Handler
}

func NewMetricsModule(h http.Handler) *MetricsModule { return &MetricsModule{Handler: h} }

func (m *MetricsModule) Register(rg *gin.RouterGroup) {
	rg.GET("/metrics", gin.WrapH(m.Handler))
}
