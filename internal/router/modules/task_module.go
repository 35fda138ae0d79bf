package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-task-api/internal/interface/http"
)

type TaskModule struct {
	Handler *handlers.TaskHandler
	Search  *handlers.SearchHandler
}

func NewTaskModule(h *handlers.TaskHandler, search *handlers.SearchHandler) *TaskModule {
	return &TaskModule{Handler: h, Search: search}
}

func (m *TaskModule) Register(rg *gin.RouterGroup) {
	tasks := rg.Group("/tasks")
	tasks.POST("", m.Handler.Create)
	tasks.GET("", m.Handler.List)
	tasks.GET("/search", m.Search.Tasks)
	tasks.GET("/:id", m.Handler.Get)
	tasks.PUT("/:id", m.Handler.Update)
	tasks.DELETE("/:id", m.Handler.Delete)
}
