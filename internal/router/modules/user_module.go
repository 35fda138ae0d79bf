package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-task-api/internal/interface/http"
)

// UserModule serves /users and /users/search.
type UserModule struct {
	Handler *handlers.UserHandler
	Search  *handlers.SearchHandler
}

func NewUserModule(h *handlers.UserHandler, search *handlers.SearchHandler) *UserModule {
	return &UserModule{Handler: h, Search: search}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.POST("", m.Handler.Create)
	users.GET("", m.Handler.List)
	// static segment wins over :id
	users.GET("/search", m.Search.Users)
	users.GET("/:id", m.Handler.Get)
	users.PUT("/:id", m.Handler.Update)
	users.DELETE("/:id", m.Handler.Delete)
}
