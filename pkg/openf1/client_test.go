//nolint:funlen // ok for tests
package openf1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	last     time.Time
	recorded []time.Time
	readErr  error
}

func (f *fakeClock) ReadLastFetchTime(ctx context.Context) (time.Time, error) {
	return f.last, f.readErr
}

func (f *fakeClock) RecordFetchTime(ctx context.Context, t time.Time) error {
	f.recorded = append(f.recorded, t)
	f.last = t
	return nil
}

var testNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

// newTestClient returns a client whose sleeps are recorded instead of
// performed.
func newTestClient(url string, clock *fakeClock, opts ...ClientOption) (*Client, *[]time.Duration) {
	slept := []time.Duration{}
	c := NewClient(append([]ClientOption{WithBaseURL(url), WithFetchClock(clock)}, opts...)...)
	c.now = func() time.Time { return testNow }
	c.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return c, &slept
}

func TestClient_Fetch(t *testing.T) {
	var gotQuery, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `[{"session_key":9158,"session_type":"Practice"}]`)
	}))
	defer srv.Close()

	clock := &fakeClock{last: testNow.Add(-time.Minute)}
	c, slept := newTestClient(srv.URL+"/v1", clock)
	rows, err := c.Fetch(context.Background(), "sessions",
		Params{Lte("date_end", "2025-09-28"), Gte("date_start", "2025-03-13")})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "/v1/sessions", gotPath)
	assert.Equal(t, "date_end<=2025-09-28&date_start>=2025-03-13", gotQuery)
	assert.Empty(t, *slept)
	assert.Equal(t, []time.Time{testNow}, clock.recorded)
}

func TestClient_Throttle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	tests := []struct {
		name string
		last time.Time
		want []time.Duration
	}{
		{"recent call", testNow.Add(-2 * time.Second), []time.Duration{3 * time.Second}},
		{"old call", testNow.Add(-6 * time.Second), []time.Duration{}},
		{"unknown counts as now", testNow, []time.Duration{5 * time.Second}},
		{"clock skew is capped", testNow.Add(time.Hour), []time.Duration{5 * time.Second}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, slept := newTestClient(srv.URL, &fakeClock{last: tt.last})
			_, err := c.Fetch(context.Background(), "meetings", nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *slept)
		})
	}
}

func TestClient_ThrottleCanceled(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithFetchClock(&fakeClock{last: time.Now()}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Fetch(ctx, "meetings", nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), hits.Load())
}

func TestClient_RemoteError(t *testing.T) {
	tests := []struct {
		status   int
		wantText string
	}{
		{http.StatusBadRequest, "Bad request (400)"},
		{http.StatusUnauthorized, "Unauthorized (401)"},
		{http.StatusForbidden, "Forbidden (403)"},
		{http.StatusRequestTimeout, "Request timeout (408)"},
		{http.StatusInternalServerError, "Internal server error (500)"},
		{http.StatusBadGateway, "Bad gateway (502)"},
		{http.StatusServiceUnavailable, "Service unavailable (503)"},
		{http.StatusGatewayTimeout, "Gateway timeout (504)"},
		{http.StatusNetworkAuthenticationRequired, "Network authentication required (511)"},
		{http.StatusTeapot, "Unexpected status code (418)"},
	}
	for _, tt := range tests {
		t.Run(tt.wantText, func(t *testing.T) {
			var hits atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				http.Error(w, "nope", tt.status)
			}))
			defer srv.Close()

			clock := &fakeClock{last: testNow.Add(-time.Hour)}
			c, _ := newTestClient(srv.URL, clock)
			_, err := c.Fetch(context.Background(), "laps", Params{Eq("session_key", 1)})
			var remote *RemoteError
			require.True(t, errors.As(err, &remote))
			assert.Equal(t, tt.status, remote.StatusCode)
			assert.Equal(t, "laps", remote.Endpoint)
			assert.Contains(t, err.Error(), tt.wantText)
			assert.Equal(t, int32(1), hits.Load(), "no retry by default")
			assert.Len(t, clock.recorded, 1, "failed calls are recorded too")
		})
	}
}

func TestClient_InvalidRequest(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c, _ := newTestClient(srv.URL, &fakeClock{})
	_, err := c.Fetch(context.Background(), "lapz", nil)
	assert.ErrorIs(t, err, ErrUnknownEndpoint)
	_, err = c.Fetch(context.Background(), "laps", Params{Eq("compound", "SOFT")})
	assert.ErrorIs(t, err, ErrUnknownParameter)
	assert.Equal(t, int32(0), hits.Load())
}

func TestClient_Retry(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"results":[{"driver_number":1}]}`)
	}))
	defer srv.Close()

	c, _ := newTestClient(srv.URL, &fakeClock{last: testNow.Add(-time.Hour)},
		WithMaxRetries(2), WithMinInterval(0))
	rows, err := c.Fetch(context.Background(), "drivers", nil)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, int32(2), hits.Load())
}

func TestClient_RetryNotForClientErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c, _ := newTestClient(srv.URL, &fakeClock{last: testNow.Add(-time.Hour)},
		WithMaxRetries(3), WithMinInterval(0))
	_, err := c.Fetch(context.Background(), "drivers", nil)
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusForbidden, remote.StatusCode)
	assert.Equal(t, int32(1), hits.Load())
}

func TestClient_ClockError(t *testing.T) {
	c, _ := newTestClient("http://127.0.0.1:1", &fakeClock{readErr: errors.New("disk full")})
	_, err := c.Fetch(context.Background(), "meetings", nil)
	assert.ErrorContains(t, err, "disk full")
}
