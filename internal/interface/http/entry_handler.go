package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-diary/internal/application"
	"github.com/oksasatya/go-ddd-diary/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-diary/internal/domain/entity"
	"github.com/oksasatya/go-ddd-diary/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-diary/pkg/response"
)

// MaxImageSize bounds multipart image uploads.
const MaxImageSize = 5 << 20

// EntryHandler serves the CRUD routes of one owned resource kind.
type EntryHandler[T entity.Owned] struct {
	Svc *application.EntryService[T]
	New func() T
}

func NewEntryHandler[T entity.Owned](svc *application.EntryService[T], newFn func() T) *EntryHandler[T] {
	return &EntryHandler[T]{Svc: svc, New: newFn}
}

func (h *EntryHandler[T]) Create(c *gin.Context) {
	v := h.New()
	if err := c.ShouldBindJSON(v); err != nil {
		bindError(c, err)
		return
	}
	out, err := h.Svc.Create(c.Request.Context(), middleware.UserID(c), v)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, out, h.Svc.Kind+" created", nil)
}

func (h *EntryHandler[T]) List(c *gin.Context) {
	items, err := h.Svc.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.List(c, items, h.Svc.Kind+" list", nil)
}

func (h *EntryHandler[T]) ByDate(c *gin.Context) {
	items, err := h.Svc.ListByDay(c.Request.Context(), middleware.UserID(c), c.Param("date"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.List(c, items, h.Svc.Kind+" list", map[string]any{"date": c.Param("date")})
}

func (h *EntryHandler[T]) Get(c *gin.Context) {
	v, err := h.Svc.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, v, h.Svc.Kind, nil)
}

// Update merges the JSON body into the stored resource. The body is only
// decoded after ownership has been confirmed.
func (h *EntryHandler[T]) Update(c *gin.Context) {
	var bindErr error
	v, err := h.Svc.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), func(cur T) error {
		bindErr = c.ShouldBindJSON(cur)
		return bindErr
	})
	if bindErr != nil {
		bindError(c, bindErr)
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, v, h.Svc.Kind+" updated", nil)
}

func (h *EntryHandler[T]) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		writeError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"id": id}, h.Svc.Kind+" deleted", nil)
}

// AddImage accepts a multipart "image" file and appends its URL to the entry.
func (h *EntryHandler[T]) AddImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxImageSize)
	fh, err := c.FormFile("image")
	if err != nil {
		writeError(c, apperror.InvalidInput("image is required", map[string]string{"image": "is required"}))
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, apperror.InvalidInput("image could not be read", nil))
		return
	}
	defer f.Close()

	v, err := h.Svc.AttachImage(c.Request.Context(), middleware.UserID(c), c.Param("id"), fh.Header.Get("Content-Type"), f)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, v, "image uploaded", nil)
}
