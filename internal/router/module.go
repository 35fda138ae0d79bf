package router

import "github.com/gin-gonic/gin"

// Module registers a feature's routes (users, tasks, health, docs) on the registry group.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// ModuleFunc adapts a plain function to Module.
type ModuleFunc func(rg *gin.RouterGroup)

func (f ModuleFunc) Register(rg *gin.RouterGroup) { f(rg) }
