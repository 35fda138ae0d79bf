package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-task-api/internal/application"
	"github.com/oksasatya/go-ddd-task-api/internal/domain/entity"
	"github.com/oksasatya/go-ddd-task-api/pkg/response"
	"github.com/oksasatya/go-ddd-task-api/pkg/validation"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type CreateUserRequest struct {
	Name  string `json:"name" binding:"required,max=255" example:"João Silva"`
	Email string `json:"email" binding:"required,email,max=255" example:"joao.silva@example.com"`
}

type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty" binding:"omitempty,min=1,max=255" example:"João Silva"`
	Email *string `json:"email,omitempty" binding:"omitempty,min=1,email,max=255" example:"joao.silva@example.com"`
}

type UserResponse struct {
	ID        string    `json:"id" example:"123e4567-e89b-42d3-a456-426614174000"`
	Name      string    `json:"name" example:"João Silva"`
	Email     string    `json:"email" example:"joao.silva@example.com"`
	CreatedAt time.Time `json:"createdAt"`
}

var userMessages = validation.MessageTable{
	"name.required":  "O nome é obrigatório",
	"name.min":       "O nome é obrigatório",
	"name.string":    "O nome deve ser uma string",
	"name.max":       "O nome deve ter no máximo 255 caracteres",
	"email.required": "O email é obrigatório",
	"email.min":      "O email é obrigatório",
	"email.string":   "O email deve ser válido",
	"email.email":    "O email deve ser válido",
	"email.max":      "O email deve ter no máximo 255 caracteres",
}

func toUserResponse(u *entity.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

// Create godoc
// @Summary     Criar usuário
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       body body     CreateUserRequest true "Dados do usuário"
// @Success     201  {object} UserResponse
// @Failure     400  {object} response.ErrorBody
// @Failure     409  {object} response.ErrorBody
// @Router      /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if !bind(c, &req, userMessages) {
		return
	}
	u, err := h.Svc.Create(c.Request.Context(), application.CreateUserInput{Name: req.Name, Email: req.Email})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toUserResponse(u))
}

// List godoc
// @Summary     Listar usuários
// @Tags        users
// @Produce     json
// @Success     200 {array} UserResponse
// @Router      /users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.List(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	response.Success(c, http.StatusOK, out)
}

// Get godoc
// @Summary     Buscar usuário por ID
// @Tags        users
// @Produce     json
// @Param       id  path     string true "ID do usuário"
// @Success     200 {object} UserResponse
// @Failure     404 {object} response.ErrorBody
// @Router      /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u))
}

// Update godoc
// @Summary     Atualizar usuário
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       id   path     string            true "ID do usuário"
// @Param       body body     UpdateUserRequest true "Campos a atualizar"
// @Success     200  {object} UserResponse
// @Failure     400  {object} response.ErrorBody
// @Failure     404  {object} response.ErrorBody
// @Failure     409  {object} response.ErrorBody
// @Router      /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	var req UpdateUserRequest
	if !bind(c, &req, userMessages) {
		return
	}
	u, err := h.Svc.Update(c.Request.Context(), c.Param("id"), application.UpdateUserInput{Name: req.Name, Email: req.Email})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u))
}

// Delete godoc
// @Summary     Remover usuário e suas tarefas
// @Tags        users
// @Param       id  path string true "ID do usuário"
// @Success     204
// @Failure     404 {object} response.ErrorBody
// @Router      /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.NoContent(c)
}
