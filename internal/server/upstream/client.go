// Package upstream is the page route's client for the question lookup API.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/graph-gophers/dataloader/v7"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ButyrinIA/qotd/internal/models"
	"github.com/ButyrinIA/qotd/internal/storage"
)

// CacheSize bounds the number of questions a Client keeps.
const CacheSize = 256

var ErrUpstreamFetchFailed = errors.New("failed to fetch question")

// StatusError carries a non-2xx answer of the lookup API.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("lookup api returned %d", e.StatusCode)
	}
	return fmt.Sprintf("lookup api returned %d: %s", e.StatusCode, e.Message)
}

// Client fetches questions over HTTP. Concurrent requests for the same
// question are coalesced into one call and the last CacheSize successful
// answers are kept; questions never change while the process runs.
type Client struct {
	http   *http.Client
	loader *dataloader.Loader[string, *models.Question]
}

func New(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	c := &Client{http: httpClient}
	c.loader = dataloader.NewBatchedLoader(c.batch,
		dataloader.WithWait[string, *models.Question](time.Millisecond),
		dataloader.WithCache[string, *models.Question](newCache(CacheSize)),
	)
	return c
}

// Endpoint joins the API base url and a question slug. Slugs naming the same
// question give the same endpoint.
func Endpoint(baseURL, slug string) string {
	url := storage.QuestionURL(slug)
	if url == "" {
		url = "/questions/"
	}
	return strings.TrimRight(baseURL, "/") + "/api" + url
}

// Fetch returns the question at the given lookup endpoint. Every error
// wraps ErrUpstreamFetchFailed; API answers also wrap a *StatusError.
func (c *Client) Fetch(ctx context.Context, endpoint string) (*models.Question, error) {
	q, err := c.loader.Load(ctx, endpoint)()
	if err != nil {
		c.loader.Clear(ctx, endpoint)
		return nil, fmt.Errorf("%w: %w", ErrUpstreamFetchFailed, err)
	}
	return q.Clone(), nil
}

func (c *Client) batch(ctx context.Context, endpoints []string) []*dataloader.Result[*models.Question] {
	// The batch outlives the request that triggered it.
	ctx = context.WithoutCancel(ctx)

	results := make([]*dataloader.Result[*models.Question], len(endpoints))
	var wg sync.WaitGroup
	for i, endpoint := range endpoints {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q, err := c.get(ctx, endpoint)
			results[i] = &dataloader.Result[*models.Question]{Data: q, Error: err}
		}()
	}
	wg.Wait()
	return results
}

func (c *Client) get(ctx context.Context, endpoint string) (*models.Question, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: body.Error}
	}

	var q models.Question
	if err := json.NewDecoder(resp.Body).Decode(&q); err != nil {
		return nil, fmt.Errorf("decode question: %w", err)
	}
	return &q, nil
}

type cache struct {
	*lru.Cache[string, dataloader.Thunk[*models.Question]]
}

func newCache(size int) *cache {
	c, err := lru.New[string, dataloader.Thunk[*models.Question]](size)
	if err != nil {
		panic(err)
	}
	return &cache{Cache: c}
}

func (c *cache) Get(_ context.Context, key string) (dataloader.Thunk[*models.Question], bool) {
	return c.Cache.Get(key)
}

func (c *cache) Set(_ context.Context, key string, thunk dataloader.Thunk[*models.Question]) {
	c.Cache.Add(key, thunk)
}

func (c *cache) Delete(_ context.Context, key string) bool {
	return c.Cache.Remove(key)
}

func (c *cache) Clear() {
	c.Cache.Purge()
}
