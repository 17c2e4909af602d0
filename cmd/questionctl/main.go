// Command questionctl inspects the question fixture and seeds the postgres
// backend from it.
//
//	questionctl [-config config.yaml] [-storage memory|postgres] <command> [args]
//
// Commands: list, find <slug>, tree <slug>, share [-origin url] <slug>, seed.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ButyrinIA/qotd/internal/config"
	"github.com/ButyrinIA/qotd/internal/feed"
	"github.com/ButyrinIA/qotd/internal/logger"
	"github.com/ButyrinIA/qotd/internal/models"
	"github.com/ButyrinIA/qotd/internal/relativetime"
	"github.com/ButyrinIA/qotd/internal/storage"
	"github.com/ButyrinIA/qotd/internal/storage/memory"
	"github.com/ButyrinIA/qotd/internal/storage/postgres"
	"github.com/ButyrinIA/qotd/internal/thread"
)

var errUsage = errors.New("usage: questionctl [-config path] [-storage memory|postgres] list|find|tree|share|seed [args]")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("questionctl", flag.ContinueOnError)
	configPath := fs.String("config", "config.yaml", "path to the config file")
	storageType := fs.String("storage", "", "storage backend: memory or postgres (overrides config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *storageType != "" {
		cfg.Storage = *storageType
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	slog.SetDefault(logger.New(os.Stderr, cfg))

	rest := fs.Args()
	if len(rest) == 0 {
		return errUsage
	}

	cmd, rest := rest[0], rest[1:]
	if cmd == "seed" {
		return seed(ctx, cfg, out)
	}

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	switch cmd {
	case "list":
		return list(ctx, store, out)
	case "find":
		return find(ctx, store, rest, out)
	case "tree":
		return tree(ctx, store, rest, out)
	case "share":
		return share(ctx, store, rest, out)
	default:
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}
}

func openStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	if cfg.Storage == config.StoragePostgres {
		return postgres.New(ctx, cfg.Postgres.DSN)
	}
	return memory.Load(cfg.Fixture)
}

func lookup(ctx context.Context, store storage.Storage, args []string) (*models.Question, error) {
	if len(args) != 1 {
		return nil, errUsage
	}
	return store.FindQuestion(ctx, storage.QuestionURL(args[0]))
}

func list(ctx context.Context, store storage.Storage, out io.Writer) error {
	questions, err := store.ListQuestions(ctx)
	if err != nil {
		return err
	}
	for _, q := range questions {
		fmt.Fprintf(out, "%s\t%s\t%d likes\t%d comments\t%s\n",
			q.URL, relativetime.Date(q.CreatedAt), q.NumLikes, q.NumComments, q.Text)
	}
	return nil
}

func find(ctx context.Context, store storage.Storage, args []string, out io.Writer) error {
	q, err := lookup(ctx, store, args)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(q)
}

func tree(ctx context.Context, store storage.Storage, args []string, out io.Writer) error {
	q, err := lookup(ctx, store, args)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s (%d comments)\n", q.Text, q.NumComments)
	for _, top := range thread.TopLevel(q.Comments) {
		for c, depth := range thread.RenderTree(&top) {
			fmt.Fprintf(out, "%s- %s, %s: %s\n",
				strings.Repeat("  ", depth+1), c.Profile.FirstName, relativetime.Format(c.CreatedAt), summary(c))
		}
	}
	return nil
}

func summary(c *models.Comment) string {
	switch {
	case c.Text != nil:
		return *c.Text
	case c.GIF != nil:
		return "[gif] " + *c.GIF
	case c.Image != nil:
		return "[image] " + *c.Image
	}
	return ""
}

func share(ctx context.Context, store storage.Storage, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("share", flag.ContinueOnError)
	origin := fs.String("origin", "http://localhost:8080", "origin prepended to the question url")
	if err := fs.Parse(args); err != nil {
		return err
	}

	q, err := lookup(ctx, store, fs.Args())
	if err != nil {
		return err
	}
	if !feed.NewSession(q).Share(ctx, feed.WriterClipboard{W: out}, *origin) {
		return feed.ErrClipboardWrite
	}
	return nil
}

func seed(ctx context.Context, cfg *config.Config, out io.Writer) error {
	if cfg.Postgres.DSN == "" {
		return errors.New("DATABASE_URL is required for seed")
	}

	questions, err := readFixture(cfg.Fixture)
	if err != nil {
		return err
	}

	store, err := postgres.New(ctx, cfg.Postgres.DSN)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.Seed(ctx, questions)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "fixture seeded", "fixture", cfg.Fixture, "inserted", n, "total", len(questions))
	fmt.Fprintf(out, "inserted %d of %d questions\n", n, len(questions))
	return nil
}

func readFixture(path string) ([]models.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	return memory.Decode(data)
}
