package modules

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/oksasatya/go-ddd-task-api/docs"
)

// DocsModule serves the Swagger UI and doc.json under /api/docs.
// A bare /api/docs is redirected to /api/docs/ by gin.
type DocsModule struct{}

func NewDocsModule() *DocsModule { return &DocsModule{} }

func (m *DocsModule) Register(rg *gin.RouterGroup) {
	rg.GET("/api/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.DocExpansion("list"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}
