package openf1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/mpapenbr/openf1-analysis/log"
	"github.com/mpapenbr/openf1-analysis/pkg/model"
	"github.com/mpapenbr/openf1-analysis/pkg/store"
)

const (
	DefaultBaseURL            = "https://api.openf1.org/v1/"
	DefaultMinRequestInterval = 5 * time.Second
	DefaultRequestTimeout     = 30 * time.Second
)

// Fetcher returns the rows of an endpoint matching the given filters.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string, params Params) (model.RawRows, error)
}

type (
	Client struct {
		baseURL     string
		httpClient  *http.Client
		clock       store.FetchClock
		minInterval time.Duration
		maxRetries  int
		now         func() time.Time
		sleep       func(ctx context.Context, d time.Duration) error
		log         *log.Logger
		mu          sync.Mutex
	}
	ClientOption func(c *Client)
)

func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		c.baseURL = baseURL
	}
}

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithFetchClock sets where the time of the last request is persisted.
func WithFetchClock(clock store.FetchClock) ClientOption {
	return func(c *Client) {
		c.clock = clock
	}
}

// WithMinInterval sets the minimum delay between two outbound requests.
func WithMinInterval(d time.Duration) ClientOption {
	return func(c *Client) {
		c.minInterval = d
	}
}

// WithMaxRetries enables retries for temporary remote errors.
// The default 0 means every non-2xx response fails immediately.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		c.maxRetries = max(n, 0)
	}
}

func WithLogger(l *log.Logger) ClientOption {
	return func(c *Client) {
		c.log = l
	}
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		httpClient:  &http.Client{Timeout: DefaultRequestTimeout},
		clock:       store.NewMemoryClock(),
		minInterval: DefaultMinRequestInterval,
		now:         time.Now,
		sleep:       sleepCtx,
		log:         log.Default().Named("openf1"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the request URL for endpoint and params.
func (c *Client) URL(endpoint string, params Params) string {
	u := c.baseURL + endpoint
	if q := params.Encode(); q != "" {
		u += "?" + q
	}
	return u
}

// Fetch validates the request, waits for the minimum request interval and
// returns the decoded rows. Requests of one client are serialized.
func (c *Client) Fetch(ctx context.Context, endpoint string, params Params) (
	model.RawRows, error,
) {
	if err := ValidateRequest(endpoint, params); err != nil {
		return nil, err
	}
	reqURL := c.URL(endpoint, params)

	c.mu.Lock()
	defer c.mu.Unlock()

	var body []byte
	op := func() error {
		var err error
		body, err = c.do(ctx, endpoint, reqURL)
		var remote *RemoteError
		if errors.As(err, &remote) && !remote.Temporary() {
			return backoff.Permanent(err)
		}
		return err
	}
	if err := backoff.RetryNotify(op, c.backoff(ctx), c.notify(endpoint)); err != nil {
		return nil, err
	}
	rows, err := DecodeRows(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}
	c.log.Debug("fetched", log.String("url", reqURL), log.Int("rows", len(rows)))
	return rows, nil
}

func (c *Client) backoff(ctx context.Context) backoff.BackOff {
	var b backoff.BackOff = &backoff.StopBackOff{}
	if c.maxRetries > 0 {
		eb := backoff.NewExponentialBackOff()
		eb.InitialInterval = max(c.minInterval, 500*time.Millisecond)
		b = backoff.WithMaxRetries(eb, uint64(c.maxRetries))
	}
	return backoff.WithContext(b, ctx)
}

func (c *Client) notify(endpoint string) backoff.Notify {
	return func(err error, d time.Duration) {
		c.log.Warn("request failed, retrying",
			log.String("endpoint", endpoint),
			log.Duration("wait", d),
			log.ErrorField(err))
	}
}

func (c *Client) do(ctx context.Context, endpoint, reqURL string) ([]byte, error) {
	if err := c.throttle(ctx); err != nil {
		return nil, backoff.Permanent(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")
	c.log.Debug("request", log.String("url", reqURL))
	resp, err := c.httpClient.Do(req)
	if recErr := c.clock.RecordFetchTime(ctx, c.now()); recErr != nil {
		c.log.Warn("could not record fetch time", log.ErrorField(recErr))
	}
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		//nolint:errcheck // body is irrelevant on error
		io.Copy(io.Discard, resp.Body)
		return nil, &RemoteError{Endpoint: endpoint, URL: reqURL, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response of %s: %w", endpoint, err)
	}
	return body, nil
}

// throttle sleeps until minInterval has passed since the last recorded
// request. A missing record counts as a request made just now.
func (c *Client) throttle(ctx context.Context) error {
	if c.minInterval <= 0 {
		return nil
	}
	last, err := c.clock.ReadLastFetchTime(ctx)
	if err != nil {
		return fmt.Errorf("read last fetch time: %w", err)
	}
	diff := c.now().Sub(last)
	if diff >= c.minInterval {
		return nil
	}
	wait := min(c.minInterval-diff, c.minInterval)
	c.log.Named("throttle").Info("sleeping to not spam the API",
		log.Duration("wait", wait.Round(time.Millisecond)))
	return c.sleep(ctx, wait)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
