package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"
)

// published once per process; expvar panics on duplicate names
var runtimeVars = expvar.NewMap("task_api")

type DebugModule struct {
	env     string
	storage string
}

func NewDebugModule(env, storage string) *DebugModule {
	return &DebugModule{env: env, storage: storage}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	env, storage := new(expvar.String), new(expvar.String)
	env.Set(m.env)
	storage.Set(m.storage)
	runtimeVars.Set("environment", env)
	runtimeVars.Set("storage_driver", storage)
	rg.GET("/debug/vars", gin.WrapH(expvar.Handler()))
}
