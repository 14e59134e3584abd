package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-diary/internal/domain/entity"
	handlers "github.com/oksasatya/go-ddd-diary/internal/interface/http"
)

// EntryModule serves the /new, /all, /entry/:id ... route family used by the
// personal and professional diaries.
type EntryModule[T entity.Owned] struct {
	Prefix  string
	Handler *handlers.EntryHandler[T]
	Gate    gin.HandlerFunc
}

func NewEntryModule[T entity.Owned](prefix string, h *handlers.EntryHandler[T], gate gin.HandlerFunc) *EntryModule[T] {
	return &EntryModule[T]{Prefix: prefix, Handler: h, Gate: gate}
}

func (m *EntryModule[T]) Register(rg *gin.RouterGroup) {
	g := rg.Group(m.Prefix, m.Gate)
	g.POST("/new", m.Handler.Create)
	g.GET("/all", m.Handler.List)
	g.GET("/entry/:id", m.Handler.Get)
	g.PUT("/update/:id", m.Handler.Update)
	g.DELETE("/delete/:id", m.Handler.Delete)
	g.GET("/date/:date", m.Handler.ByDate)
	g.POST("/entry/:id/images", m.Handler.AddImage)
}

type ScheduleModule struct {
	Handler *handlers.ScheduleHandler
	Gate    gin.HandlerFunc
}

func NewScheduleModule(h *handlers.ScheduleHandler, gate gin.HandlerFunc) *ScheduleModule {
	return &ScheduleModule{Handler: h, Gate: gate}
}

func (m *ScheduleModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/schedule", m.Gate)
	g.POST("/new", m.Handler.Create)
	g.GET("/all", m.Handler.List)
	g.GET("/item/:id", m.Handler.Get)
	g.PUT("/update/:id", m.Handler.Update)
	g.DELETE("/delete/:id", m.Handler.Delete)
	g.GET("/date/:date", m.Handler.ByDate)
	g.PATCH("/complete/:id", m.Handler.Complete)
}

// DiaryModule exposes diary entries in plain REST style plus search.
type DiaryModule struct {
	Handler *handlers.DiaryHandler
	Gate    gin.HandlerFunc
}

func NewDiaryModule(h *handlers.DiaryHandler, gate gin.HandlerFunc) *DiaryModule {
	return &DiaryModule{Handler: h, Gate: gate}
}

func (m *DiaryModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/diary", m.Gate)
	g.GET("", m.Handler.List)
	g.POST("", m.Handler.Create)
	g.GET("/search", m.Handler.Search)
	g.GET("/:id", m.Handler.Get)
	g.PUT("/:id", m.Handler.Update)
	g.DELETE("/:id", m.Handler.Delete)
}
