package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-task-api/internal/infrastructure/search"
	"github.com/oksasatya/go-ddd-task-api/pkg/apperror"
	"github.com/oksasatya/go-ddd-task-api/pkg/response"
)

type SearchHandler struct {
	Index  *search.Index
	Logger *logrus.Logger
}

func NewSearchHandler(index *search.Index, logger *logrus.Logger) *SearchHandler {
	return &SearchHandler{Index: index, Logger: logger}
}

func queryParams(c *gin.Context) (string, int, bool) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.FromError(c, apperror.Validation("O parâmetro q é obrigatório"))
		return "", 0, false
	}
	size, _ := strconv.Atoi(c.Query("size"))
	return q, size, true
}

// Users godoc
// @Summary     Buscar usuários por nome ou email
// @Description Consulta o índice de busca; retorna lista vazia quando a busca está desabilitada.
// @Tags        users
// @Produce     json
// @Param       q    query    string true  "Texto da busca"
// @Param       size query    int    false "Máximo de resultados (padrão 10, máximo 50)"
// @Success     200  {array}  object
// @Failure     400  {object} response.ErrorBody
// @Router      /users/search [get]
func (h *SearchHandler) Users(c *gin.Context) {
	q, size, ok := queryParams(c)
	if !ok {
		return
	}
	hits, err := h.Index.SearchUsers(c.Request.Context(), q, size)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, hits)
}

// Tasks godoc
// @Summary     Buscar tarefas por título, descrição ou responsável
// @Tags        tasks
// @Produce     json
// @Param       q    query    string true  "Texto da busca"
// @Param       size query    int    false "Máximo de resultados (padrão 10, máximo 50)"
// @Success     200  {array}  object
// @Failure     400  {object} response.ErrorBody
// @Router      /tasks/search [get]
func (h *SearchHandler) Tasks(c *gin.Context) {
	q, size, ok := queryParams(c)
	if !ok {
		return
	}
	hits, err := h.Index.SearchTasks(c.Request.Context(), q, size)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, hits)
}
