package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ButyrinIA/qotd/internal/feed"
	"github.com/ButyrinIA/qotd/internal/models"
	"github.com/ButyrinIA/qotd/internal/server/upstream"
	"github.com/ButyrinIA/qotd/internal/storage"
	"github.com/ButyrinIA/qotd/internal/thread"
)

const pageErrorMessage = "Failed to fetch question"

// PageHandler renders question pages. It reads questions through the lookup
// API at apiBaseURL, the same way an external client would.
type PageHandler struct {
	storage    storage.Storage
	client     *upstream.Client
	apiBaseURL string
}

func NewPageHandler(storage storage.Storage, client *upstream.Client, apiBaseURL string) *PageHandler {
	return &PageHandler{storage: storage, client: client, apiBaseURL: apiBaseURL}
}

type questionView struct {
	Question      *models.Question
	Comments      []thread.Node
	Liked         bool
	ShareURL      string
	CommentHref   string
	FocusComposer bool
	ComposerError string
	Draft         string
	Local         string
}

func (h *PageHandler) Home(c *gin.Context) {
	questions, err := h.storage.ListQuestions(c.Request.Context())
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to list questions", "error", err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Failed to load questions"})
		return
	}
	c.HTML(http.StatusOK, "home.html", gin.H{"Questions": questions})
}

func (h *PageHandler) Show(c *gin.Context) {
	session, ok := h.load(c)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, session, questionView{})
}

// Submit applies a like toggle or a new comment to the viewer's copy of the
// question and renders the result. Nothing is stored.
func (h *PageHandler) Submit(c *gin.Context) {
	session, ok := h.load(c)
	if !ok {
		return
	}

	restoreLocal(c, session)
	if liked, _ := strconv.ParseBool(c.PostForm("liked")); liked {
		session.ToggleLike()
	}

	status := http.StatusOK
	var view questionView
	session.RegisterFocus(feed.FocusFunc(func() { view.FocusComposer = true }))

	switch c.PostForm("action") {
	case "like":
		session.ToggleLike()
	default:
		_, err := session.Submit(feed.ComposerInput{
			Text:  c.PostForm("text"),
			Image: c.PostForm("image"),
			GIF:   c.PostForm("gif"),
		})
		if errors.Is(err, feed.ErrEmptyComment) {
			status = http.StatusUnprocessableEntity
			view.ComposerError = "Write something or attach an image before sending."
			session.FocusComposer()
			view.Draft = c.PostForm("text")
		}
	}

	h.render(c, status, session, view)
}

func (h *PageHandler) load(c *gin.Context) (*feed.Session, bool) {
	ctx := c.Request.Context()

	question, err := h.client.Fetch(ctx, upstream.Endpoint(h.apiBaseURL, c.Param("slug")))
	if err != nil {
		status := http.StatusBadGateway
		var statusErr *upstream.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode < 500 {
			status = statusErr.StatusCode
		}
		slog.WarnContext(ctx, "question page fetch failed", "slug", c.Param("slug"), "error", err)
		c.HTML(status, "error.html", gin.H{"Message": pageErrorMessage})
		return nil, false
	}

	return feed.NewSession(question), true
}

func (h *PageHandler) render(c *gin.Context, status int, session *feed.Session, view questionView) {
	q := session.Question()
	view.Question = q
	view.Comments = thread.Flatten(q)
	view.Liked = session.Liked()
	view.ShareURL = origin(c) + q.URL
	view.CommentHref = session.CommentLink(c.Request.URL.Path)

	if local := session.Local(); len(local) > 0 {
		data, err := json.Marshal(local)
		if err != nil {
			slog.ErrorContext(c.Request.Context(), "failed to encode local comments", "error", err)
		} else {
			view.Local = string(data)
		}
	}

	c.HTML(status, "question.html", view)
}

// restoreLocal re-applies the comments the viewer posted on earlier
// renderings of the page. They travel in the "local" form field.
func restoreLocal(c *gin.Context, session *feed.Session) {
	raw := c.PostForm("local")
	if raw == "" {
		return
	}
	var local []models.Comment
	if err := json.Unmarshal([]byte(raw), &local); err != nil {
		slog.WarnContext(c.Request.Context(), "dropping undecodable local comments", "error", err)
		return
	}
	session.Restore(local)
}

func origin(c *gin.Context) string {
	proto := c.GetHeader("X-Forwarded-Proto")
	if proto == "" {
		proto = "http"
	}
	return proto + "://" + c.Request.Host
}
