package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWelcome(t *testing.T) {
	subject, text, html, err := Render(Welcome, EmailData{
		Name:      "Ana",
		Email:     "ana@x.com",
		CreatedAt: time.Date(2025, 10, 8, 10, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "Bem-vindo ao Task API, Ana", subject)
	assert.Contains(t, text, "ana@x.com")
	assert.Contains(t, text, "08/10/2025 10:30")
	assert.Contains(t, html, "<strong>ana@x.com</strong>")
}

func TestRenderTaskAssignedEscapesHTML(t *testing.T) {
	_, text, html, err := Render(TaskAssigned, EmailData{
		AppName:         "Tarefas",
		Name:            "Ana",
		TaskTitle:       "<b>T</b>",
		TaskDescription: "D",
		TaskStatus:      "pending",
	})
	require.NoError(t, err)
	assert.Contains(t, text, "Status: PENDING")
	assert.Contains(t, text, "<b>T</b>")
	assert.Contains(t, html, "&lt;b&gt;T&lt;/b&gt;")
	assert.Contains(t, html, "Tarefas")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("missing", EmailData{})
	assert.Error(t, err)
}
