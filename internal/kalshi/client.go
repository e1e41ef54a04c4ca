package kalshi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/goldbar123467/arb-bot/pkg/cache"
	"github.com/goldbar123467/arb-bot/pkg/types"
)

const (
	apiPrefix = "/trade-api/v2"

	defaultReadDelay  = 150 * time.Millisecond
	defaultSeriesTTL  = 5 * time.Minute
	defaultMaxRetries = 5
	maxRetryBackoff   = 10 * time.Second
)

// Client is the venue REST client. Reads are throttled to a minimum spacing
// and rate-limit responses are retried with backoff; write paths never retry
// on their own because a duplicate order is worse than a missing one.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	signer       *Signer
	cache        cache.Cache
	seriesTTL    time.Duration
	readDelay    time.Duration
	maxRetries   int
	retryBackoff time.Duration
	logger       *zap.Logger

	mu       sync.Mutex
	lastRead time.Time
}

// Config holds client configuration.
type Config struct {
	BaseURL      string
	Signer       *Signer // nil disables authentication, reads still work
	Cache        cache.Cache
	SeriesTTL    time.Duration
	ReadDelay    time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	Logger       *zap.Logger
}

// NewClient creates a venue client.
func NewClient(cfg Config) *Client {
	readDelay := cfg.ReadDelay
	if readDelay == 0 {
		readDelay = defaultReadDelay
	}
	seriesTTL := cfg.SeriesTTL
	if seriesTTL == 0 {
		seriesTTL = defaultSeriesTTL
	}
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = defaultMaxRetries
	}
	retryBackoff := cfg.RetryBackoff
	if retryBackoff == 0 {
		retryBackoff = time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		signer:       cfg.Signer,
		cache:        cfg.Cache,
		seriesTTL:    seriesTTL,
		readDelay:    readDelay,
		maxRetries:   maxRetries,
		retryBackoff: retryBackoff,
		logger:       cfg.Logger,
	}
}

// ListSeries returns the venue's series for a category, paginating through
// the cursor and caching the aggregate result. The series universe changes
// rarely, so the cache saves one paginated crawl per scan cycle.
func (c *Client) ListSeries(ctx context.Context, category string) ([]types.Series, error) {
	cacheKey := "series:" + category
	if c.cache != nil {
		if cached, ok := c.cache.Get(cacheKey); ok {
			if series, ok := cached.([]types.Series); ok {
				SeriesCacheHitsTotal.Inc()
				return series, nil
			}
		}
		SeriesCacheMissesTotal.Inc()
	}

	var all []types.Series
	cursor := ""
	for {
		params := url.Values{}
		if category != "" {
			params.Set("category", category)
		}
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		var page struct {
			Series []types.Series `json:"series"`
			Cursor string         `json:"cursor"`
		}
		if err := c.doGet(ctx, "/series", params, &page); err != nil {
			return nil, fmt.Errorf("list series: %w", err)
		}

		all = append(all, page.Series...)
		if page.Cursor == "" {
			break
		}
		cursor = page.Cursor
	}

	if c.cache != nil {
		c.cache.Set(cacheKey, all, c.seriesTTL)
	}
	return all, nil
}

// ListEvents returns the open events of a series with their nested markets.
func (c *Client) ListEvents(ctx context.Context, seriesTicker string) ([]types.Event, error) {
	var all []types.Event
	cursor := ""
	for {
		params := url.Values{}
		params.Set("series_ticker", seriesTicker)
		params.Set("status", "open")
		params.Set("with_nested_markets", "true")
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		var page struct {
			Events []types.Event `json:"events"`
			Cursor string        `json:"cursor"`
		}
		if err := c.doGet(ctx, "/events", params, &page); err != nil {
			return nil, fmt.Errorf("list events for %s: %w", seriesTicker, err)
		}

		all = append(all, page.Events...)
		if page.Cursor == "" {
			break
		}
		cursor = page.Cursor
	}
	return all, nil
}

// GetOrderbook fetches the raw book for one bracket.
func (c *Client) GetOrderbook(ctx context.Context, marketTicker string, depth int) (*types.Orderbook, error) {
	params := url.Values{}
	if depth > 0 {
		params.Set("depth", strconv.Itoa(depth))
	}

	var resp struct {
		Orderbook types.Orderbook `json:"orderbook"`
	}
	err := c.doGet(ctx, "/markets/"+marketTicker+"/orderbook", params, &resp)
	if err != nil {
		return nil, fmt.Errorf("get orderbook for %s: %w", marketTicker, err)
	}
	return &resp.Orderbook, nil
}

// CreateOrder submits a limit order. Not retried: after a transport failure
// the order's fate is unknown and the caller must treat it as unresolved.
func (c *Client) CreateOrder(ctx context.Context, req types.OrderRequest) (*types.Order, error) {
	var resp struct {
		Order types.Order `json:"order"`
	}
	err := c.do(ctx, http.MethodPost, "/portfolio/orders", nil, req, &resp, false)
	if err != nil {
		return nil, err
	}
	return &resp.Order, nil
}

// CancelOrder cancels a resting order.
func (c *Client) CancelOrder(ctx context.Context, orderID string) (*types.Order, error) {
	var resp struct {
		Order types.Order `json:"order"`
	}
	err := c.do(ctx, http.MethodDelete, "/portfolio/orders/"+orderID, nil, nil, &resp, false)
	if err != nil {
		return nil, err
	}
	return &resp.Order, nil
}

// GetOrder fetches the current state of an order.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*types.Order, error) {
	var resp struct {
		Order types.Order `json:"order"`
	}
	err := c.do(ctx, http.MethodGet, "/portfolio/orders/"+orderID, nil, nil, &resp, true)
	if err != nil {
		return nil, err
	}
	return &resp.Order, nil
}

// doGet runs a throttled, retried GET against the public market-data surface.
func (c *Client) doGet(ctx context.Context, path string, params url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, params, nil, out, true)
}

// do performs one API call. Reads wait for the throttle slot and retry
// rate-limit responses; retries exhausted or transport failures come back as
// a TransportError.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out any, retriable bool) error {
	fullPath := apiPrefix + path
	requestURL := c.baseURL + fullPath
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
	}

	backoff := c.retryBackoff
	attempts := 1
	if retriable {
		attempts = c.maxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if method == http.MethodGet {
			if err := c.waitReadSlot(ctx); err != nil {
				return err
			}
		}

		retryAfter, err := c.doOnce(ctx, method, fullPath, requestURL, payload, out)
		if err == nil {
			return nil
		}
		lastErr = err

		var venueErr *types.VenueError
		rateLimited := false
		if errors.As(err, &venueErr) {
			rateLimited = venueErr.StatusCode == http.StatusTooManyRequests
			if !rateLimited {
				// Structured rejections are final, retrying cannot change them.
				return err
			}
		}
		if !retriable {
			break
		}

		wait := backoff
		if retryAfter > 0 {
			wait = retryAfter
		}
		if rateLimited {
			RateLimitedTotal.Inc()
		}
		c.logger.Warn("request-backing-off",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("wait", wait),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return &types.TransportError{Op: method + " " + path, Err: ctx.Err()}
		case <-time.After(wait):
		}

		backoff *= 2
		if backoff > maxRetryBackoff {
			backoff = maxRetryBackoff
		}
	}

	return &types.TransportError{Op: method + " " + path, Err: lastErr}
}

// doOnce issues a single HTTP request. The returned duration is the server's
// Retry-After hint when it was rate limited.
func (c *Client) doOnce(ctx context.Context, method, signPath, requestURL string, payload []byte, out any) (time.Duration, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.signer != nil {
		headers, err := c.signer.Headers(method, signPath, time.Now())
		if err != nil {
			return 0, err
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		RequestsTotal.WithLabelValues(method, "transport_error").Inc()
		return 0, err
	}
	defer resp.Body.Close()

	RequestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()
	RequestDurationSeconds.Observe(time.Since(start).Seconds())

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := time.Duration(0)
		if v := resp.Header.Get("Retry-After"); v != "" {
			if secs, err := strconv.Atoi(v); err == nil {
				retryAfter = time.Duration(secs) * time.Second
			}
		}
		return retryAfter, &types.VenueError{
			StatusCode: resp.StatusCode,
			Code:       "rate_limited",
			Message:    "too many requests",
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		venueErr := &types.VenueError{StatusCode: resp.StatusCode}
		var envelope struct {
			Error types.VenueError `json:"error"`
		}
		if json.Unmarshal(raw, &envelope) == nil && envelope.Error.Code != "" {
			venueErr.Code = envelope.Error.Code
			venueErr.Message = envelope.Error.Message
		} else {
			venueErr.Code = "http_error"
			venueErr.Message = string(raw)
		}
		return 0, venueErr
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return 0, fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return 0, nil
}

// waitReadSlot enforces the minimum spacing between read requests.
func (c *Client) waitReadSlot(ctx context.Context) error {
	c.mu.Lock()
	now := time.Now()
	next := c.lastRead.Add(c.readDelay)
	var wait time.Duration
	if next.After(now) {
		wait = next.Sub(now)
		c.lastRead = next
	} else {
		c.lastRead = now
	}
	c.mu.Unlock()

	if wait == 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}
