package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-diary/internal/application"
	"github.com/oksasatya/go-ddd-diary/internal/domain/entity"
	"github.com/oksasatya/go-ddd-diary/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-diary/pkg/response"
)

type DiaryHandler struct {
	*EntryHandler[*entity.DiaryEntry]
	Diary *application.DiaryService
}

func NewDiaryHandler(svc *application.DiaryService) *DiaryHandler {
	return &DiaryHandler{
		EntryHandler: NewEntryHandler(svc.EntryService, func() *entity.DiaryEntry { return &entity.DiaryEntry{} }),
		Diary:        svc,
	}
}

func (h *DiaryHandler) Search(c *gin.Context) {
	items, err := h.Diary.Search(c.Request.Context(), middleware.UserID(c), c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.List(c, items, "search results", nil)
}

type ScheduleHandler struct {
	*EntryHandler[*entity.ScheduleItem]
}

func NewScheduleHandler(svc *application.EntryService[*entity.ScheduleItem]) *ScheduleHandler {
	return &ScheduleHandler{EntryHandler: NewEntryHandler(svc, func() *entity.ScheduleItem { return &entity.ScheduleItem{} })}
}

// Complete toggles the completed flag.
func (h *ScheduleHandler) Complete(c *gin.Context) {
	item, err := application.ToggleComplete(c.Request.Context(), h.Svc, middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, item, "schedule item updated", nil)
}
