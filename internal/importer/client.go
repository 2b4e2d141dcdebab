package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tetralog/tetralog/internal/logging"
)

const (
	perPage        = 200
	requestTimeout = 30 * time.Second
)

// Default retry settings
const (
	defaultMaxRetries     = 5
	defaultInitialBackoff = 1 * time.Second
	defaultMaxBackoff     = 2 * time.Minute
)

// ExportSession is one session record from the export feed. The type field
// selects the discipline; the remaining fields are a union of the
// per-discipline metrics and unused ones are zero.
type ExportSession struct {
	Type           string    `json:"type"`
	Name           string    `json:"name"`
	StartTime      time.Time `json:"start_time"`
	DurationSecs   int64     `json:"duration_secs"`
	DistanceM      float64   `json:"distance_m"`
	ElevationGainM float64   `json:"elevation_gain_m"`
	Cadence        float64   `json:"cadence"`
	PoolLengthM    float64   `json:"pool_length_m"`
	AvgHeartRate   float64   `json:"avg_heart_rate"`
	Shots          int64     `json:"shots"`
	Hits           int64     `json:"hits"`
	Score          float64   `json:"score"`
}

// ErrRateLimited indicates the feed returned a 429 after retries were exhausted
var ErrRateLimited = fmt.Errorf("rate limited")

// Client fetches session exports over HTTP with automatic retry and backoff
type Client struct {
	httpClient *retryablehttp.Client
	baseURL    string
	authToken  string
}

// RetryConfig holds retry/backoff settings
type RetryConfig struct {
	MaxRetries int
	MinWait    time.Duration
	MaxWait    time.Duration
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: defaultMaxRetries,
		MinWait:    defaultInitialBackoff,
		MaxWait:    defaultMaxBackoff,
	}
}

// NewClient creates a new export feed client with automatic retry
func NewClient(baseURL, authToken string) *Client {
	return newClientWithConfig(baseURL, authToken, DefaultRetryConfig())
}

// NewClientWithRetryConfig creates a client with custom retry settings (useful for testing)
func NewClientWithRetryConfig(baseURL, authToken string, cfg RetryConfig) *Client {
	return newClientWithConfig(baseURL, authToken, cfg)
}

func newClientWithConfig(baseURL, authToken string, cfg RetryConfig) *Client {
	log := logging.Logger
	client := retryablehttp.NewClient()
	client.RetryMax = cfg.MaxRetries
	client.RetryWaitMin = cfg.MinWait
	client.RetryWaitMax = cfg.MaxWait
	client.HTTPClient.Timeout = requestTimeout
	client.Logger = &logging.LeveledLogger{}

	// Retry on 429 and 5xx plus connection errors; fail fast on client errors.
	client.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			return true, nil
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			return true, nil
		}
		if resp.StatusCode >= 500 {
			return true, nil
		}
		return false, nil
	}

	client.RequestLogHook = func(logger retryablehttp.Logger, req *http.Request, retry int) {
		if retry > 0 {
			log.Info().
				Str("url", req.URL.Path).
				Int("attempt", retry+1).
				Msg("retrying request")
		}
	}

	return &Client{
		httpClient: client,
		baseURL:    baseURL,
		authToken:  authToken,
	}
}

// FetchAllSessions pages through the entire export feed
func (c *Client) FetchAllSessions(ctx context.Context) ([]ExportSession, error) {
	return c.fetchSessions(ctx, 0)
}

// FetchSessionsSince pages through sessions starting after the given time
// (for delta imports)
func (c *Client) FetchSessionsSince(ctx context.Context, since time.Time) ([]ExportSession, error) {
	return c.fetchSessions(ctx, since.Unix())
}

func (c *Client) fetchSessions(ctx context.Context, after int64) ([]ExportSession, error) {
	var all []ExportSession
	page := 1

	for {
		sessions, err := c.fetchSessionsPage(ctx, page, after)
		if err != nil {
			return all, err
		}
		if len(sessions) == 0 {
			break
		}
		all = append(all, sessions...)
		logging.Debug("fetched export page", "page", page, "sessions", len(sessions), "total", len(all))
		page++
	}

	return all, nil
}

func (c *Client) fetchSessionsPage(ctx context.Context, page int, after int64) ([]ExportSession, error) {
	url := fmt.Sprintf("%s/sessions?page=%d&per_page=%d", c.baseURL, page, perPage)
	if after > 0 {
		url += fmt.Sprintf("&after=%d", after)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		// Retries exhausted
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var sessions []ExportSession
	if err := json.NewDecoder(resp.Body).Decode(&sessions); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return sessions, nil
}
