package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/ButyrinIA/qotd/internal/models"
	"github.com/ButyrinIA/qotd/internal/storage"
)

// MemoryStorage serves questions from a fixture held in memory. The fixture
// is never written to after construction.
type MemoryStorage struct {
	questions []models.Question
	mu        sync.RWMutex
}

func New(questions []models.Question) *MemoryStorage {
	return &MemoryStorage{questions: questions}
}

// Load reads a JSON array of questions from path.
func Load(path string) (*MemoryStorage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}

	questions, err := Decode(data)
	if err != nil {
		return nil, err
	}

	slog.Info("fixture loaded", "path", path, "questions", len(questions))
	return New(questions), nil
}

func Decode(data []byte) ([]models.Question, error) {
	var questions []models.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("failed to decode fixture: %w", err)
	}
	return questions, nil
}

func (s *MemoryStorage) FindQuestion(ctx context.Context, url string) (*models.Question, error) {
	if url == "" {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.questions {
		if s.questions[i].URL == url {
			return s.questions[i].Clone(), nil
		}
	}

	slog.DebugContext(ctx, "question not found", "url", url)
	return nil, storage.ErrNotFound
}

func (s *MemoryStorage) ListQuestions(ctx context.Context) ([]models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Question, len(s.questions))
	for i := range s.questions {
		result[i] = *s.questions[i].Clone()
	}
	return result, nil
}

func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.questions = nil
	return nil
}
