package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/ButyrinIA/qotd/internal/config"
	"github.com/ButyrinIA/qotd/internal/server/middleware"
	"github.com/ButyrinIA/qotd/internal/server/upstream"
	"github.com/ButyrinIA/qotd/internal/storage"
)

type Server struct {
	cfg     *config.Config
	storage storage.Storage
	pages   *PageHandler
	handler http.Handler
}

func New(cfg *config.Config, storage storage.Storage) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	apiBaseURL := cfg.Upstream.BaseURL
	if apiBaseURL == "" {
		apiBaseURL = loopbackURL(cfg.Server.Port)
	}
	client := upstream.New(&http.Client{Timeout: cfg.Upstream.Timeout})
	pages := NewPageHandler(storage, client, apiBaseURL)
	setupRoutes(router, storage, pages)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORS.Origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})

	return &Server{cfg: cfg, storage: storage, pages: pages, handler: c.Handler(router)}
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled and then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+s.cfg.Server.Port)
	if err != nil {
		return err
	}
	if s.cfg.Upstream.BaseURL == "" {
		s.pages.apiBaseURL = loopbackURL(strconv.Itoa(ln.Addr().(*net.TCPAddr).Port))
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "http server starting", "addr", ln.Addr().String(), "api", s.pages.apiBaseURL)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.InfoContext(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// loopbackURL is where the page route reaches the lookup API of this
// process when no upstream base url is configured.
func loopbackURL(port string) string {
	return "http://127.0.0.1:" + port
}

func setupRoutes(router *gin.Engine, store storage.Storage, pages *PageHandler) {
	router.SetHTMLTemplate(templates)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	questions := NewQuestionHandler(store)
	router.Any("/api/questions/*slug", questions.Get)

	router.GET("/", pages.Home)
	router.GET("/questions/*slug", pages.Show)
	router.POST("/questions/*slug", pages.Submit)
}
