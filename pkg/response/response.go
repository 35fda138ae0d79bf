package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-task-api/pkg/apperror"
)

// ErrorBody is the shape of every error response. Message is a list of
// strings for validation errors and a single string otherwise.
type ErrorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    any    `json:"message"`
	Error      string `json:"error"`
}

// Success writes data as the JSON body.
func Success[T any](ctx *gin.Context, status int, data T) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, data)
}

func NoContent(ctx *gin.Context) {
	ctx.Status(http.StatusNoContent)
}

func Error(ctx *gin.Context, status int, message any) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.AbortWithStatusJSON(status, ErrorBody{
		StatusCode: status,
		Message:    message,
		Error:      http.StatusText(status),
	})
}

// FromError writes err using its apperror kind. Causes of internal errors
// never reach the client.
func FromError(ctx *gin.Context, err error) {
	ae := apperror.From(err)
	status := ae.Kind.HTTPStatus()
	if ae.Kind == apperror.KindValidation && len(ae.Details) > 0 {
		Error(ctx, status, ae.Details)
		return
	}
	Error(ctx, status, ae.Message)
}
