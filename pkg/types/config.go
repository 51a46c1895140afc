// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"time"
)

const (
	DefaultDebounce       = 300 * time.Millisecond
	DefaultMinQueryLength = 2
)

// HTTPConfig holds shared HTTP settings used by network-backed sources.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds retries on throttled or unavailable responses
	// (0 uses the default).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// AggregatorConfig holds settings for the query aggregator.
type AggregatorConfig struct {
	// Debounce is the quiet period after the last submit before a query is
	// dispatched (default 300ms).
	Debounce time.Duration `json:"debounce" yaml:"debounce"`

	// MinQueryLength is the minimum trimmed query length (default 2).
	MinQueryLength int `json:"min_query_length" yaml:"min_query_length"`

	// CacheSize bounds the query cache. Zero keeps every query for the
	// lifetime of the aggregator.
	CacheSize int `json:"cache_size" yaml:"cache_size"`
}

// ApplyDefaults fills zero values with defaults.
func (c *AggregatorConfig) ApplyDefaults() {
	if c.Debounce == 0 {
		c.Debounce = DefaultDebounce
	}
	if c.MinQueryLength == 0 {
		c.MinQueryLength = DefaultMinQueryLength
	}
}

// Validate checks the aggregator settings.
func (c AggregatorConfig) Validate() error {
	if c.Debounce <= 0 {
		return fmt.Errorf("debounce must be positive, got %v", c.Debounce)
	}
	if c.MinQueryLength < 1 {
		return fmt.Errorf("min_query_length must be >= 1, got %d", c.MinQueryLength)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must be >= 0, got %d", c.CacheSize)
	}
	return nil
}

// SourceType selects how a configured source is backed.
type SourceType string

const (
	SourceSQLite SourceType = "sqlite"
	SourceItems  SourceType = "items"
	SourceREST   SourceType = "rest"
)

// SourceConfig describes one search source. Sources are queried and merged
// in the order they are configured.
type SourceConfig struct {
	// Kind is the source kind reported on every record (e.g. "rooms").
	Kind string `json:"kind" yaml:"kind" mapstructure:"kind"`

	// Type selects the backing adapter: sqlite, items, or rest.
	Type SourceType `json:"type" yaml:"type" mapstructure:"type"`

	// URL is the REST endpoint; the query is sent as the q parameter.
	URL string `json:"url,omitempty" yaml:"url,omitempty" mapstructure:"url"`

	// ResultsPath is the gjson path to the record array ("" means the body is the array).
	ResultsPath string `json:"results_path,omitempty" yaml:"results_path,omitempty" mapstructure:"results_path"`

	// Field paths (gjson syntax) used to normalize REST records.
	IDPath       string `json:"id_path,omitempty" yaml:"id_path,omitempty" mapstructure:"id_path"`
	TitlePath    string `json:"title_path,omitempty" yaml:"title_path,omitempty" mapstructure:"title_path"`
	SubtitlePath string `json:"subtitle_path,omitempty" yaml:"subtitle_path,omitempty" mapstructure:"subtitle_path"`

	// Icon is a fixed icon hint applied to every record of this source.
	Icon string `json:"icon,omitempty" yaml:"icon,omitempty" mapstructure:"icon"`

	// TargetTemplate builds the navigation target; "{id}" is replaced by the record ID.
	TargetTemplate string `json:"target_template,omitempty" yaml:"target_template,omitempty" mapstructure:"target_template"`

	// Limit caps the records fetched per query (0 uses the adapter default).
	Limit int `json:"limit,omitempty" yaml:"limit,omitempty" mapstructure:"limit"`

	HTTPConfig `yaml:",inline" mapstructure:",squash"`
}

// Validate checks a single source entry.
func (c SourceConfig) Validate() error {
	if c.Kind == "" {
		return errors.New("source kind is required")
	}
	switch c.Type {
	case SourceSQLite, SourceItems:
	case SourceREST:
		if c.URL == "" {
			return fmt.Errorf("source %s: url is required for rest sources", c.Kind)
		}
	default:
		return fmt.Errorf("source %s: unsupported type %q", c.Kind, c.Type)
	}
	return nil
}

// StoreConfig holds settings for the SQLite catalog store.
type StoreConfig struct {
	// Dir is the directory holding catalog.db.
	Dir string `json:"dir" yaml:"dir"`

	// SearchLimit caps rows returned per source query (default 25).
	SearchLimit int `json:"search_limit" yaml:"search_limit"`
}

// SelectionConfig holds the configured selection plans.
type SelectionConfig struct {
	Plans []SelectionPlan `json:"plans" yaml:"plans"`

	// DefaultPlan is the plan a new selection session starts with.
	DefaultPlan string `json:"default_plan" yaml:"default_plan"`
}

// DefaultPlans returns the board plans used when none are configured.
func DefaultPlans() []SelectionPlan {
	return []SelectionPlan{
		{ID: "room-only", Name: "Room Only"},
		{ID: "bed-breakfast", Name: "Bed & Breakfast", RequiredFlags: []string{"isBreakfast"}},
		{ID: "half-board", Name: "Half Board", RequiredFlags: []string{"isBreakfast", "isDinner"}},
		{ID: "full-board", Name: "Full Board", RequiredFlags: []string{"isBreakfast", "isLunch", "isDinner"}},
	}
}

// ApplyDefaults fills zero values with defaults.
func (c *SelectionConfig) ApplyDefaults() {
	if len(c.Plans) == 0 {
		c.Plans = DefaultPlans()
	}
	if c.DefaultPlan == "" {
		c.DefaultPlan = c.Plans[0].ID
	}
}

// Validate checks plan IDs are unique and the default plan exists.
func (c SelectionConfig) Validate() error {
	seen := make(map[string]bool, len(c.Plans))
	for _, p := range c.Plans {
		if p.ID == "" {
			return errors.New("plan id is required")
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate plan id %q", p.ID)
		}
		seen[p.ID] = true
	}
	if c.DefaultPlan != "" && !seen[c.DefaultPlan] {
		return fmt.Errorf("default plan %q is not configured", c.DefaultPlan)
	}
	return nil
}

// ServerConfig holds HTTP server settings for the serve command.
type ServerConfig struct {
	Addr            string        `json:"addr" yaml:"addr"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	// Env selects the logger preset: prod (JSON) or local/dev (console).
	Env string `json:"env" yaml:"env"`

	// Level overrides the preset level: debug, info, warn, error.
	Level string `json:"level" yaml:"level"`
}

// EngineConfig groups all configuration for the catalog engine.
type EngineConfig struct {
	Aggregator AggregatorConfig `json:"aggregator" yaml:"aggregator"`
	Sources    []SourceConfig   `json:"sources" yaml:"sources"`
	Selection  SelectionConfig  `json:"selection" yaml:"selection"`
	Store      StoreConfig      `json:"store" yaml:"store"`
	Server     ServerConfig     `json:"server" yaml:"server"`
	Logging    LoggingConfig    `json:"logging" yaml:"logging"`
}

// ApplyDefaults fills zero values across all sections.
func (c *EngineConfig) ApplyDefaults() {
	c.Aggregator.ApplyDefaults()
	c.Selection.ApplyDefaults()
	if c.Store.Dir == "" {
		c.Store.Dir = "data"
	}
	if c.Store.SearchLimit <= 0 {
		c.Store.SearchLimit = 25
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Logging.Env == "" {
		c.Logging.Env = "local"
	}
}

// Validate checks every section.
func (c EngineConfig) Validate() error {
	if err := c.Aggregator.Validate(); err != nil {
		return fmt.Errorf("aggregator: %w", err)
	}
	kinds := make(map[string]bool, len(c.Sources))
	for _, s := range c.Sources {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("sources: %w", err)
		}
		if kinds[s.Kind] {
			return fmt.Errorf("sources: duplicate kind %q", s.Kind)
		}
		kinds[s.Kind] = true
	}
	if err := c.Selection.Validate(); err != nil {
		return fmt.Errorf("selection: %w", err)
	}
	return nil
}
