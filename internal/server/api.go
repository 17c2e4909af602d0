package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ButyrinIA/qotd/internal/storage"
)

var ErrMethodNotAllowed = errors.New("method not allowed")

// QuestionHandler serves the read-only lookup API.
type QuestionHandler struct {
	storage storage.Storage
}

func NewQuestionHandler(storage storage.Storage) *QuestionHandler {
	return &QuestionHandler{storage: storage}
}

func (h *QuestionHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	if c.Request.Method != http.MethodGet {
		c.Header("Allow", http.MethodGet)
		c.Error(ErrMethodNotAllowed)
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
		return
	}

	url := storage.QuestionURL(c.Param("slug"))
	question, err := h.storage.FindQuestion(ctx, url)
	switch {
	case errors.Is(err, storage.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slug parameter"})
		return
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	case err != nil:
		slog.ErrorContext(ctx, "question lookup failed", "url", url, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, question)
}
