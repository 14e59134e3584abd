package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-diary/internal/application"
	"github.com/oksasatya/go-ddd-diary/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-diary/pkg/response"
)

type ReminderHandler struct {
	Svc *application.ReminderService
}

func NewReminderHandler(svc *application.ReminderService) *ReminderHandler {
	return &ReminderHandler{Svc: svc}
}

func (h *ReminderHandler) Today(c *gin.Context) {
	items, err := h.Svc.Today(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.List(c, items, "today's reminders", nil)
}

func (h *ReminderHandler) Seen(c *gin.Context) {
	r, err := h.Svc.MarkSeen(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, r, "reminder marked as seen", nil)
}

type QuoteHandler struct {
	Svc *application.QuoteService
}

func NewQuoteHandler(svc *application.QuoteService) *QuoteHandler {
	return &QuoteHandler{Svc: svc}
}

func (h *QuoteHandler) Today(c *gin.Context) {
	q, err := h.Svc.Today(c.Request.Context())
	if errors.Is(err, application.ErrQuoteUpstream) {
		response.Error(c, http.StatusBadGateway, "failed to fetch quote", response.ErrorBody{Code: "upstream"})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, q, "quote of the day", nil)
}

// Health reports liveness only; it does not probe dependencies.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
