package thread

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ButyrinIA/qotd/internal/models"
)

// DefaultProfile is attached to every comment written from the composer.
// There is no account system behind it.
var DefaultProfile = models.Profile{
	FirstName:   "Nadzeri",
	Personality: ptr("INTJ"),
	Horoscope:   ptr("Gemini"),
	Anneagram:   ptr("1w2"),
	Picture:     ptr("/nadzeri.jpg"),
}

var now = time.Now

// NewComment builds a top-level comment with a fresh id. Empty strings are
// treated as absent. Callers guard with HasContent; a comment with no content
// is still returned.
func NewComment(text, image, gif *string) models.Comment {
	return models.Comment{
		ID:        uuid.NewString(),
		Text:      orNil(text),
		Image:     orNil(image),
		GIF:       orNil(gif),
		Profile:   DefaultProfile.Clone(),
		Comments:  []models.Comment{},
		CreatedAt: now().UTC(),
	}
}

// HasContent reports whether a composer submission may be turned into a
// comment: non-blank text, an image or a gif.
func HasContent(text, image, gif *string) bool {
	if text != nil && strings.TrimSpace(*text) != "" {
		return true
	}
	return orNil(image) != nil || orNil(gif) != nil
}

func orNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

func ptr(s string) *string { return &s }
