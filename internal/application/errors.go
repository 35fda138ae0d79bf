package application

import (
	"errors"

	repo "github.com/oksasatya/go-ddd-task-api/internal/domain/repository"
	"github.com/oksasatya/go-ddd-task-api/pkg/apperror"
)

var (
	ErrUserNotFound = apperror.NotFound("Usuário não encontrado")
	ErrTaskNotFound = apperror.NotFound("Tarefa não encontrada")
	ErrEmailTaken   = apperror.Conflict("Email já cadastrado")

	errInvalidStatus = apperror.Validation("Status deve ser pending ou done")
)

// storeError classifies a store failure that is not a domain error.
func storeError(err error) error {
	if errors.Is(err, repo.ErrUnavailable) {
		return apperror.Unavailable(err)
	}
	return apperror.Internal(err)
}
