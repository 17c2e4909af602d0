package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ButyrinIA/qotd/internal/models"
	"github.com/ButyrinIA/qotd/internal/thread"
)

var (
	ErrEmptyComment   = errors.New("comment must have text, an image or a gif")
	ErrClipboardWrite = errors.New("failed to copy link")
)

// Clipboard receives the link produced by Share.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// FocusTarget is implemented by the composer. The session hands focus to
// whichever target was registered last.
type FocusTarget interface {
	Focus()
}

// FocusFunc adapts a plain function to FocusTarget.
type FocusFunc func()

func (f FocusFunc) Focus() { f() }

// ComposerInput is one composer submission. Image is a reference to an
// already uploaded file.
type ComposerInput struct {
	Text  string
	Image string
	GIF   string
}

// Session is the local state behind one rendering of a question page.
// Nothing it does is written back to the question store.
type Session struct {
	mu       sync.Mutex
	question *models.Question
	local    []models.Comment
	liked    bool
	focus    FocusTarget
}

func NewSession(q *models.Question) *Session {
	return &Session{question: q.Clone()}
}

// Question returns a snapshot of the viewer's copy of the question.
func (s *Session) Question() *models.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.question.Clone()
}

func (s *Session) Liked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.liked
}

// ToggleLike likes or unlikes the question and returns the new like count.
func (s *Session) ToggleLike() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.liked {
		s.question.NumLikes--
	} else {
		s.question.NumLikes++
	}
	s.liked = !s.liked
	return s.question.NumLikes
}

// Submit turns a composer submission into a new top-level comment.
func (s *Session) Submit(in ComposerInput) (models.Comment, error) {
	text, image, gif := optional(in.Text), optional(in.Image), optional(in.GIF)
	if !thread.HasContent(text, image, gif) {
		return models.Comment{}, ErrEmptyComment
	}

	c := thread.NewComment(text, image, gif)

	s.mu.Lock()
	s.question = thread.InsertTopLevel(s.question, c)
	s.local = append(s.local, c.Clone())
	s.mu.Unlock()

	return c, nil
}

// Local returns the comments posted in this session, oldest first.
func (s *Session) Local() []models.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Comment, len(s.local))
	for i := range s.local {
		out[i] = s.local[i].Clone()
	}
	return out
}

// Restore re-applies comments returned by Local of an earlier rendering,
// oldest first. Only id, content and time are taken over; entries without
// an id or content are skipped. It returns the number applied.
func (s *Session) Restore(comments []models.Comment) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, in := range comments {
		if in.ID == "" || !thread.HasContent(in.Text, in.Image, in.GIF) {
			continue
		}
		c := thread.NewComment(in.Text, in.Image, in.GIF)
		c.ID = in.ID
		c.CreatedAt = in.CreatedAt.UTC()

		s.question = thread.InsertTopLevel(s.question, c)
		s.local = append(s.local, c)
		n++
	}
	return n
}

// Share copies the absolute link of the question to the clipboard and
// reports whether the viewer should see a confirmation. Failures are logged
// and otherwise swallowed.
func (s *Session) Share(ctx context.Context, clipboard Clipboard, origin string) bool {
	link := origin + s.Question().URL
	if err := clipboard.WriteText(ctx, link); err != nil {
		slog.ErrorContext(ctx, "share failed", "error", fmt.Errorf("%w: %w", ErrClipboardWrite, err), "url", link)
		return false
	}
	return true
}

// RegisterFocus makes target the receiver of FocusComposer calls.
func (s *Session) RegisterFocus(target FocusTarget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focus = target
}

// FocusComposer focuses the registered composer, if any, and reports
// whether one was registered.
func (s *Session) FocusComposer() bool {
	s.mu.Lock()
	target := s.focus
	s.mu.Unlock()

	if target == nil {
		return false
	}
	target.Focus()
	return true
}

// CommentLink is the href of the "Comment" link of a question card seen
// from currentPath.
func (s *Session) CommentLink(currentPath string) string {
	url := s.Question().URL
	if currentPath == url {
		return "#" + CommentAnchor
	}
	return url + "#" + CommentAnchor
}

// FollowCommentLink handles a click on the "Comment" link. On the question's
// own page it focuses the composer and returns ""; otherwise it returns the
// location to navigate to.
func (s *Session) FollowCommentLink(currentPath string) string {
	url := s.Question().URL
	if currentPath == url && s.FocusComposer() {
		return ""
	}
	return url + "#" + CommentAnchor
}

// CommentAnchor is the fragment that asks a freshly loaded page to focus
// its composer.
const CommentAnchor = "comment"

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
