package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-task-api/internal/health"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct{ svc *health.Service }

func NewHealthHandler(svc *health.Service) *HealthHandler { return &HealthHandler{svc: svc} }

// Root godoc
// @Summary  Endpoint raiz da aplicação
// @Tags     health
// @Produce  plain
// @Success  200 {string} string "Hello World!"
// @Router   / [get]
func (h *HealthHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, "Hello World!")
}

// Health godoc
// @Summary     Health check da aplicação
// @Description Não depende do banco de dados.
// @Tags        health
// @Produce     json
// @Success     200 {object} health.Liveness
// @Router      /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Liveness())
}

// Ready godoc
// @Summary     Readiness check da aplicação
// @Description Sempre responde 200; o campo status indica se o banco está acessível.
// @Tags        health
// @Produce     json
// @Success     200 {object} health.Readiness
// @Router      /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Readiness(c.Request.Context()))
}
