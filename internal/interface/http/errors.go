package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-task-api/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-task-api/pkg/apperror"
	"github.com/oksasatya/go-ddd-task-api/pkg/helpers"
	"github.com/oksasatya/go-ddd-task-api/pkg/response"
	"github.com/oksasatya/go-ddd-task-api/pkg/validation"
)

// fail writes err as an error body. Internal errors are logged with their cause.
func fail(c *gin.Context, logger *logrus.Logger, err error) {
	if k := apperror.KindOf(err); k == apperror.KindInternal || k == apperror.KindUnavailable {
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString(middleware.CtxRequestIDKey),
			"method":     c.Request.Method,
			"path":       c.FullPath(),
		})
		_ = c.Error(err)
	}
	response.FromError(c, err)
}

// bind decodes the body into req and reports every violated rule as a 400.
func bind(c *gin.Context, req any, table validation.MessageTable) bool {
	if err := validation.BindJSON(c, req); err != nil {
		response.FromError(c, apperror.Validation(validation.Messages(err, table)...))
		return false
	}
	return true
}
