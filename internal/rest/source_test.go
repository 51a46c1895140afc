// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IT2357/catalog-engine/internal/httputil"
	"github.com/IT2357/catalog-engine/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

func jsonServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestSourceMapsConfiguredPaths(t *testing.T) {
	var gotQuery, gotAuth, gotLimit string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotLimit = r.URL.Query().Get("limit")
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"data":{"hits":[
			{"ref":"B-7","guest":{"name":"Nimal Perera"},"room":"101"},
			{"ref":"B-9","guest":{"name":"Kamala Silva"},"room":"204"}
		]}}`))
	}))
	defer ts.Close()

	src, err := NewSource(types.SourceConfig{
		Kind:           "bookings",
		URL:            ts.URL + "/search?tenant=colombo",
		ResultsPath:    "data.hits",
		IDPath:         "ref",
		TitlePath:      "guest.name",
		SubtitlePath:   "room",
		Icon:           "calendar",
		TargetTemplate: "/bookings/{id}/edit",
		Limit:          10,
	}, ts.Client(), "bk_secret")
	require.NoError(t, err)
	assert.Equal(t, "bookings", src.Kind())

	records, err := src.Fetch(context.Background(), "sea view")
	require.NoError(t, err)

	assert.Equal(t, "sea view", gotQuery)
	assert.Equal(t, "10", gotLimit)
	assert.Equal(t, "Bearer bk_secret", gotAuth)

	require.Len(t, records, 2)
	assert.Equal(t, "bookings", records[0].SourceKind)
	assert.Equal(t, "B-7", records[0].ID)
	assert.Equal(t, "Nimal Perera", records[0].Title)
	assert.Equal(t, "101", records[0].Subtitle)
	assert.Equal(t, "calendar", records[0].Icon)
	assert.Equal(t, "/bookings/B-7/edit", records[0].Target)
	assert.False(t, records[0].Degraded)
	assert.Equal(t, "B-9", records[1].ID)
}

func TestSourceDefaults(t *testing.T) {
	ts := jsonServer(t, http.StatusOK, `[{"id":"g 1","title":"Guest One","subtitle":"VIP"}]`)

	src, err := NewSource(types.SourceConfig{Kind: "guests", URL: ts.URL}, nil, "")
	require.NoError(t, err)

	records, err := src.Fetch(context.Background(), "guest")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Guest One", records[0].Title)
	assert.Equal(t, "VIP", records[0].Subtitle)
	assert.Equal(t, "/guests/g%201", records[0].Target)
}

func TestSourceMarksIncompleteRecordsDegraded(t *testing.T) {
	ts := jsonServer(t, http.StatusOK, `[{"title":"no id"},{"id":"r2"},"scalar"]`)

	src, err := NewSource(types.SourceConfig{Kind: "rooms", URL: ts.URL}, ts.Client(), "")
	require.NoError(t, err)

	records, err := src.Fetch(context.Background(), "room")
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, r := range records {
		assert.True(t, r.Degraded, "%+v", r)
	}
	assert.Empty(t, records[0].Target)
	assert.Equal(t, "/rooms/r2", records[1].Target)
}

func TestSourceAppliesLimit(t *testing.T) {
	ts := jsonServer(t, http.StatusOK, `[{"id":"1","title":"a"},{"id":"2","title":"b"},{"id":"3","title":"c"}]`)

	src, err := NewSource(types.SourceConfig{Kind: "rooms", URL: ts.URL, Limit: 2}, ts.Client(), "")
	require.NoError(t, err)

	records, err := src.Fetch(context.Background(), "room")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestSourceFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		path    string
		wantErr string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "boom", wantErr: "returned 500: boom"},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":"bad token"}`, wantErr: "returned 401"},
		{name: "invalid json", status: http.StatusOK, body: `[{"id":`, wantErr: "invalid JSON"},
		{name: "missing array", status: http.StatusOK, body: `{"data":{}}`, path: "data.hits", wantErr: `no result array at "data.hits"`},
		{name: "object body", status: http.StatusOK, body: `{"id":"1"}`, wantErr: "no result array"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := jsonServer(t, tt.status, tt.body)
			src, err := NewSource(types.SourceConfig{Kind: "bookings", URL: ts.URL, ResultsPath: tt.path}, ts.Client(), "")
			require.NoError(t, err)

			_, err = src.Fetch(context.Background(), "query")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSourceRetriesThrottledRequests(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`[{"id":"1","title":"Room 1"}]`))
	}))
	defer ts.Close()

	src, err := NewSource(types.SourceConfig{Kind: "rooms", URL: ts.URL}, ts.Client(), "")
	require.NoError(t, err)

	records, err := src.Fetch(context.Background(), "room")
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestNewSourceRejectsBadConfig(t *testing.T) {
	_, err := NewSource(types.SourceConfig{Kind: "rooms"}, nil, "")
	assert.ErrorContains(t, err, "url is required")

	_, err = NewSource(types.SourceConfig{Kind: "rooms", URL: "ftp://example.com/rooms"}, nil, "")
	assert.ErrorContains(t, err, "unsupported url scheme")

	_, err = NewSource(types.SourceConfig{URL: "http://example.com"}, nil, "")
	assert.ErrorContains(t, err, "kind is required")
}
