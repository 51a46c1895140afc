// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IT2357/catalog-engine/pkg/types"
)

func init() {
	RetryBaseDelay = time.Millisecond
}

// statusSequence serves the given statuses in order, then 200.
func statusSequence(calls *int32, statuses ...int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		n := int(atomic.AddInt32(calls, 1))
		if n <= len(statuses) {
			w.WriteHeader(statuses[n-1])
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

func doGet(t *testing.T, ctx context.Context, url string, maxRetries int) (*http.Response, error) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	return DoWithRetry(ctx, http.DefaultClient, req, maxRetries)
}

func TestDoWithRetry(t *testing.T) {
	tests := []struct {
		name       string
		statuses   []int
		maxRetries int
		wantStatus int
		wantCalls  int32
	}{
		{name: "immediate success", wantStatus: http.StatusOK, wantCalls: 1},
		{name: "throttled then ok", statuses: []int{429, 429}, maxRetries: 5, wantStatus: http.StatusOK, wantCalls: 3},
		{name: "unavailable then ok", statuses: []int{503, 502, 504}, maxRetries: 5, wantStatus: http.StatusOK, wantCalls: 4},
		{name: "exhausts retries", statuses: []int{429, 429, 429, 429, 429}, maxRetries: 2, wantStatus: 429, wantCalls: 3},
		{name: "default max retries", statuses: []int{429, 429, 429, 429, 429}, wantStatus: 429, wantCalls: 4},
		{name: "server error passes through", statuses: []int{500}, maxRetries: 5, wantStatus: 500, wantCalls: 1},
		{name: "not found passes through", statuses: []int{404}, maxRetries: 5, wantStatus: 404, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			ts := httptest.NewServer(statusSequence(&calls, tt.statuses...))
			defer ts.Close()

			resp, err := doGet(t, context.Background(), ts.URL, tt.maxRetries)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))
		})
	}
}

func TestDoWithRetryContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	old := RetryBaseDelay
	RetryBaseDelay = 500 * time.Millisecond
	defer func() { RetryBaseDelay = old }()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := doGet(t, ctx, ts.URL, 5)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDoWithRetryHonorsRetryAfter(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	old := RetryBaseDelay
	RetryBaseDelay = time.Hour
	defer func() { RetryBaseDelay = old }()

	resp, err := doGet(t, context.Background(), ts.URL, 1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRetryAfter(t *testing.T) {
	d, ok := retryAfter("2")
	assert.True(t, ok)
	assert.Equal(t, 2*time.Second, d)

	d, ok = retryAfter("3600")
	assert.True(t, ok)
	assert.Equal(t, maxRetryAfter, d)

	for _, v := range []string{"", "-1", "Wed, 21 Oct 2015 07:28:00 GMT"} {
		_, ok := retryAfter(v)
		assert.False(t, ok, v)
	}
}

func TestNewClient(t *testing.T) {
	assert.Equal(t, defaultTimeout, NewClient(types.HTTPConfig{}).Timeout)
	assert.Equal(t, 2*time.Second, NewClient(types.HTTPConfig{Timeout: 2 * time.Second}).Timeout)
}
