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

type TaskHandler struct {
	Svc    *application.TaskService
	Logger *logrus.Logger
}

func NewTaskHandler(svc *application.TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{Svc: svc, Logger: logger}
}

type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required,max=255" example:"Estudar Go"`
	Description string `json:"description" binding:"required" example:"Estudar os conceitos fundamentais"`
	UserID      string `json:"userId" binding:"required,uuid4" example:"123e4567-e89b-42d3-a456-426614174000"`
	Status      string `json:"status,omitempty" binding:"omitempty,oneof=pending done" enums:"pending,done" example:"pending"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty" binding:"omitempty,min=1,max=255" example:"Estudar Go avançado"`
	Description *string `json:"description,omitempty" binding:"omitempty,min=1" example:"Concorrência e context"`
	Status      *string `json:"status,omitempty" binding:"omitempty,oneof=pending done" enums:"pending,done" example:"done"`
}

// TaskResponse is returned on creation.
type TaskResponse struct {
	ID          string    `json:"id" example:"9b2f7d2e-6f1c-4d8e-9a55-0c6a2e4f1b7a"`
	Title       string    `json:"title" example:"Estudar Go"`
	Description string    `json:"description" example:"Estudar os conceitos fundamentais"`
	Status      string    `json:"status" enums:"pending,done" example:"pending"`
	UserID      string    `json:"userId" example:"123e4567-e89b-42d3-a456-426614174000"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TaskWithOwnerResponse is returned by reads and updates.
type TaskWithOwnerResponse struct {
	ID          string    `json:"id" example:"9b2f7d2e-6f1c-4d8e-9a55-0c6a2e4f1b7a"`
	Title       string    `json:"title" example:"Estudar Go"`
	Description string    `json:"description" example:"Estudar os conceitos fundamentais"`
	Status      string    `json:"status" enums:"pending,done" example:"pending"`
	UserID      string    `json:"userId" example:"123e4567-e89b-42d3-a456-426614174000"`
	UserName    string    `json:"userName" example:"João Silva"`
	CreatedAt   time.Time `json:"createdAt"`
}

var taskMessages = validation.MessageTable{
	"title.required":       "O título é obrigatório",
	"title.min":            "O título é obrigatório",
	"title.string":         "O título deve ser uma string",
	"title.max":            "O título deve ter no máximo 255 caracteres",
	"description.required": "A descrição é obrigatória",
	"description.min":      "A descrição é obrigatória",
	"description.string":   "A descrição deve ser uma string",
	"userId.required":      "O userId é obrigatório",
	"userId.string":        "O userId deve ser um UUID válido",
	"userId.uuid4":         "O userId deve ser um UUID válido",
	"status.oneof":         "Status deve ser pending ou done",
	"status.string":        "Status deve ser pending ou done",
}

func toTaskResponse(t *entity.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		UserID:      t.UserID,
		CreatedAt:   t.CreatedAt,
	}
}

func toTaskWithOwnerResponse(t *entity.Task) TaskWithOwnerResponse {
	return TaskWithOwnerResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		UserID:      t.UserID,
		UserName:    t.OwnerName(),
		CreatedAt:   t.CreatedAt,
	}
}

// Create godoc
// @Summary     Criar tarefa
// @Tags        tasks
// @Accept      json
// @Produce     json
// @Param       body body     CreateTaskRequest true "Dados da tarefa"
// @Success     201  {object} TaskResponse
// @Failure     400  {object} response.ErrorBody
// @Failure     404  {object} response.ErrorBody "Usuário não encontrado"
// @Router      /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req CreateTaskRequest
	if !bind(c, &req, taskMessages) {
		return
	}
	t, err := h.Svc.Create(c.Request.Context(), application.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		UserID:      req.UserID,
		Status:      entity.TaskStatus(req.Status),
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toTaskResponse(t))
}

// List godoc
// @Summary     Listar tarefas
// @Tags        tasks
// @Produce     json
// @Success     200 {array} TaskWithOwnerResponse
// @Router      /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.Svc.List(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	out := make([]TaskWithOwnerResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, toTaskWithOwnerResponse(&tasks[i]))
	}
	response.Success(c, http.StatusOK, out)
}

// Get godoc
// @Summary     Buscar tarefa por ID
// @Tags        tasks
// @Produce     json
// @Param       id  path     string true "ID da tarefa"
// @Success     200 {object} TaskWithOwnerResponse
// @Failure     404 {object} response.ErrorBody
// @Router      /tasks/{id} [get]
func (h *TaskHandler) Get(c *gin.Context) {
	t, err := h.Svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toTaskWithOwnerResponse(t))
}

// Update godoc
// @Summary     Atualizar tarefa
// @Tags        tasks
// @Accept      json
// @Produce     json
// @Param       id   path     string            true "ID da tarefa"
// @Param       body body     UpdateTaskRequest true "Campos a atualizar"
// @Success     200  {object} TaskWithOwnerResponse
// @Failure     400  {object} response.ErrorBody
// @Failure     404  {object} response.ErrorBody
// @Router      /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	var req UpdateTaskRequest
	if !bind(c, &req, taskMessages) {
		return
	}
	in := application.UpdateTaskInput{Title: req.Title, Description: req.Description}
	if req.Status != nil {
		s := entity.TaskStatus(*req.Status)
		in.Status = &s
	}
	t, err := h.Svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toTaskWithOwnerResponse(t))
}

// Delete godoc
// @Summary     Remover tarefa
// @Tags        tasks
// @Param       id  path string true "ID da tarefa"
// @Success     204
// @Failure     404 {object} response.ErrorBody
// @Router      /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.NoContent(c)
}
