// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rest adapts JSON search endpoints to aggregate sources. Records are
// located and read with gjson paths so that any endpoint returning an array
// of objects can be plugged in from configuration.
package rest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/IT2357/catalog-engine/internal/aggregate"
	"github.com/IT2357/catalog-engine/internal/httputil"
	"github.com/IT2357/catalog-engine/pkg/types"
)

const (
	defaultIDPath       = "id"
	defaultTitlePath    = "title"
	defaultSubtitlePath = "subtitle"
	idPlaceholder       = "{id}"
	maxBodyBytes        = 4 << 20
	errorSnippetBytes   = 256
)

type endpoint struct {
	cfg    types.SourceConfig
	base   *url.URL
	client *http.Client
	token  string
}

// NewSource returns a source that queries cfg.URL with ?q=<query> and reads
// the records found at cfg.ResultsPath. A non-empty token is sent as a
// bearer credential. Non-2xx responses and malformed bodies fail the leg.
func NewSource(cfg types.SourceConfig, client *http.Client, token string) (aggregate.Source, error) {
	cfg.Type = types.SourceREST
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("source %s: parsing url: %w", cfg.Kind, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("source %s: unsupported url scheme %q", cfg.Kind, base.Scheme)
	}
	if client == nil {
		client = httputil.NewClient(cfg.HTTPConfig)
	}

	if cfg.IDPath == "" {
		cfg.IDPath = defaultIDPath
	}
	if cfg.TitlePath == "" {
		cfg.TitlePath = defaultTitlePath
	}
	if cfg.SubtitlePath == "" {
		cfg.SubtitlePath = defaultSubtitlePath
	}
	if cfg.TargetTemplate == "" {
		cfg.TargetTemplate = "/" + cfg.Kind + "/" + idPlaceholder
	}

	e := &endpoint{cfg: cfg, base: base, client: client, token: token}
	return aggregate.NewSource(cfg.Kind, e.fetch, e.normalize), nil
}

func (e *endpoint) fetch(ctx context.Context, query string) ([]gjson.Result, error) {
	u := *e.base
	params := u.Query()
	params.Set("q", query)
	if e.cfg.Limit > 0 {
		params.Set("limit", strconv.Itoa(e.cfg.Limit))
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if e.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", e.cfg.UserAgent)
	}
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	resp, err := httputil.DoWithRetry(ctx, e.client, req, e.cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", e.base.Host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorSnippetBytes))
		return nil, fmt.Errorf("%s returned %d: %s", e.base.Host, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%s returned invalid JSON", e.base.Host)
	}

	results := gjson.ParseBytes(body)
	if e.cfg.ResultsPath != "" {
		results = results.Get(e.cfg.ResultsPath)
	}
	if !results.IsArray() {
		return nil, fmt.Errorf("%s: no result array at %q", e.base.Host, e.cfg.ResultsPath)
	}

	out := results.Array()
	if e.cfg.Limit > 0 && len(out) > e.cfg.Limit {
		out = out[:e.cfg.Limit]
	}
	return out, nil
}

// normalize maps one result object onto a record. Objects missing an id or
// title are kept but marked degraded.
func (e *endpoint) normalize(r gjson.Result) types.ResultRecord {
	id := r.Get(e.cfg.IDPath).String()
	rec := types.ResultRecord{
		ID:       id,
		Title:    r.Get(e.cfg.TitlePath).String(),
		Subtitle: r.Get(e.cfg.SubtitlePath).String(),
		Icon:     e.cfg.Icon,
		Raw:      r.Value(),
	}
	if id == "" || rec.Title == "" || !r.IsObject() {
		rec.Degraded = true
	}
	if id != "" {
		rec.Target = strings.ReplaceAll(e.cfg.TargetTemplate, idPlaceholder, url.PathEscape(id))
	}
	return rec
}
