package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/ButyrinIA/qotd/internal/models"
)

var (
	ErrInvalidInput = errors.New("invalid slug parameter")
	ErrNotFound     = errors.New("question not found")
)

type Storage interface {
	FindQuestion(ctx context.Context, url string) (*models.Question, error)
	ListQuestions(ctx context.Context) ([]models.Question, error)
	Close() error
}

// QuestionURL builds the routing key of a question from its slug segments.
// An empty slug yields an empty url.
func QuestionURL(slug ...string) string {
	var parts []string
	for _, s := range slug {
		for _, seg := range strings.Split(s, "/") {
			if seg != "" {
				parts = append(parts, seg)
			}
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "/questions/" + strings.Join(parts, "/")
}
