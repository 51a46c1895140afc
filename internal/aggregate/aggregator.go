// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate turns rapid free-text input into debounced, cached
// fan-outs across independent record sources and publishes a single merged
// result list.
//
// Results are concatenated in configured source order. A failing source
// contributes nothing and never blocks the others. Every dispatch carries
// a sequence number; a fan-out whose number is no longer the latest
// submitted is dropped instead of published.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/IT2357/catalog-engine/internal/metrics"
	"github.com/IT2357/catalog-engine/pkg/types"
)

// ErrQueryTooShort is returned by Search for queries below the minimum length.
var ErrQueryTooShort = errors.New("query too short")

// Publication is one published view of the merged result list.
type Publication struct {
	// Query is the trimmed query that produced the records ("" after a clear).
	Query string `json:"query" yaml:"query"`

	// Records is the merged list in source order.
	Records []types.ResultRecord `json:"records" yaml:"records"`

	// Seq is the submit sequence number this publication answers.
	Seq uint64 `json:"seq" yaml:"seq"`

	// FromCache is set when the records came from the query cache.
	FromCache bool `json:"from_cache" yaml:"from_cache"`

	// DegradedSources lists the kinds of sources whose leg failed.
	DegradedSources []string `json:"degraded_sources,omitempty" yaml:"degraded_sources,omitempty"`

	// Degraded is set when every source failed; hosts offer a retry.
	Degraded bool `json:"degraded" yaml:"degraded"`
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets the logger used for degraded-source and staleness events.
func WithLogger(l *zap.Logger) Option {
	return func(a *Aggregator) { a.log = l }
}

// WithCache replaces the default in-memory cache.
func WithCache(c Cache) Option {
	return func(a *Aggregator) { a.cache = c }
}

// WithPublisher registers a callback invoked with every publication,
// including clears. The callback must not call back into the Aggregator.
func WithPublisher(fn func(Publication)) Option {
	return func(a *Aggregator) { a.publisher = fn }
}

// WithClock replaces the clock driving the debounce timer.
func WithClock(c Clock) Option {
	return func(a *Aggregator) { a.clock = c }
}

// Aggregator debounces submitted queries, fans them out to every source,
// and publishes the merged result list.
type Aggregator struct {
	cfg       types.AggregatorConfig
	sources   []Source
	cache     Cache
	clock     Clock
	log       *zap.Logger
	publisher func(Publication)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// emitMu orders publisher calls with the state change they report.
	emitMu sync.Mutex

	mu      sync.Mutex
	seq     uint64
	timer   Timer
	current Publication
	closed  bool
}

// New creates an Aggregator over sources, which are merged in the given order.
func New(cfg types.AggregatorConfig, sources []Source, opts ...Option) (*Aggregator, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no search sources configured")
	}
	seen := make(map[string]bool, len(sources))
	for _, s := range sources {
		if seen[s.Kind()] {
			return nil, fmt.Errorf("duplicate source kind %q", s.Kind())
		}
		seen[s.Kind()] = true
	}

	a := &Aggregator{
		cfg:       cfg,
		sources:   sources,
		clock:     realClock{},
		log:       zap.NewNop(),
		publisher: func(Publication) {},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.cache == nil {
		a.cache = NewCache(cfg.CacheSize)
	}
	a.ctx, a.cancel = context.WithCancel(context.Background())
	return a, nil
}

// Submit records a new query. Queries shorter than the minimum length clear
// the published list at once and cancel any pending dispatch. Other queries
// restart the debounce timer; only the last query of a burst is dispatched.
func (a *Aggregator) Submit(query string) {
	q := strings.TrimSpace(query)

	if !a.validQuery(q) {
		a.reset()
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.seq++
	seq := a.seq
	a.stopTimerLocked()
	a.timer = a.clock.AfterFunc(a.cfg.Debounce, func() { a.dispatch(seq, q) })
}

// Clear empties the published list and cancels any pending dispatch. The
// cache is left untouched.
func (a *Aggregator) Clear() {
	a.reset()
}

// Results returns the current published view.
func (a *Aggregator) Results() Publication {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// Close cancels pending work and waits for in-flight fan-outs to settle.
// Their results are not published.
func (a *Aggregator) Close() {
	a.mu.Lock()
	a.closed = true
	a.seq++
	a.stopTimerLocked()
	a.mu.Unlock()

	a.cancel()
	a.wg.Wait()
}

// Search runs one query synchronously, bypassing the debounce timer and the
// published view: a cache hit returns immediately, a miss fans out.
func (a *Aggregator) Search(ctx context.Context, query string) (Publication, error) {
	q := strings.TrimSpace(query)
	if !a.validQuery(q) {
		return Publication{}, fmt.Errorf("%w: %q needs at least %d characters", ErrQueryTooShort, q, a.cfg.MinQueryLength)
	}
	return a.lookup(ctx, q), nil
}

func (a *Aggregator) validQuery(q string) bool {
	return utf8.RuneCountInString(q) >= a.cfg.MinQueryLength
}

// reset bumps the sequence so pending and in-flight work goes stale, then
// publishes an empty view.
func (a *Aggregator) reset() {
	a.emitMu.Lock()
	defer a.emitMu.Unlock()

	a.mu.Lock()
	a.seq++
	a.stopTimerLocked()
	pub := Publication{Seq: a.seq, Records: []types.ResultRecord{}}
	a.current = pub
	a.mu.Unlock()

	a.publisher(pub)
}

func (a *Aggregator) stopTimerLocked() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

// dispatch runs when the debounce timer for seq fires.
func (a *Aggregator) dispatch(seq uint64, q string) {
	a.mu.Lock()
	if a.closed || seq != a.seq {
		a.mu.Unlock()
		return
	}
	a.timer = nil
	a.wg.Add(1)
	a.mu.Unlock()
	defer a.wg.Done()

	pub := a.lookup(a.ctx, q)
	pub.Seq = seq
	a.publishIfCurrent(pub)
}

// lookup answers q from the cache or by fanning out.
func (a *Aggregator) lookup(ctx context.Context, q string) Publication {
	if records, ok := a.cache.Get(q); ok {
		metrics.CacheHit()
		a.log.Debug("query served from cache", zap.String("query", q), zap.Int("records", len(records)))
		return Publication{Query: q, Records: records, FromCache: true}
	}
	return a.fanOut(ctx, q)
}

// fanOut queries every source concurrently and merges in source order once
// all legs settle. Only merges with no degraded legs are cached so a retry
// after a failure reaches the sources again.
func (a *Aggregator) fanOut(ctx context.Context, q string) Publication {
	start := time.Now()
	legs := make([][]types.ResultRecord, len(a.sources))
	errs := make([]error, len(a.sources))

	// Legs never return an error to the group: one failing source must not
	// cancel the others.
	var g errgroup.Group
	for i, src := range a.sources {
		g.Go(func() error {
			legs[i], errs[i] = fetchLeg(ctx, src, q)
			return nil
		})
	}
	_ = g.Wait()

	pub := Publication{Query: q, Records: []types.ResultRecord{}}
	for i, src := range a.sources {
		if errs[i] != nil {
			pub.DegradedSources = append(pub.DegradedSources, src.Kind())
			metrics.SourceFailed(src.Kind())
			a.log.Warn("source degraded",
				zap.String("source", src.Kind()),
				zap.String("query", q),
				zap.Error(errs[i]),
			)
			continue
		}
		pub.Records = append(pub.Records, legs[i]...)
	}
	pub.Degraded = len(pub.DegradedSources) == len(a.sources)

	elapsed := time.Since(start)
	metrics.ObserveFanout(elapsed)
	a.log.Debug("fan-out complete",
		zap.String("query", q),
		zap.Int("records", len(pub.Records)),
		zap.Int("degraded", len(pub.DegradedSources)),
		zap.Duration("elapsed", elapsed),
	)

	if pub.Degraded {
		a.log.Warn("aggregation degraded: every source failed", zap.String("query", q))
	}
	if len(pub.DegradedSources) == 0 {
		a.cache.Put(q, pub.Records)
	}
	return pub
}

// fetchLeg calls one source, converting a panic into an error.
func fetchLeg(ctx context.Context, src Source, q string) (records []types.ResultRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			records, err = nil, fmt.Errorf("source %s panicked: %v", src.Kind(), r)
		}
	}()
	return src.Fetch(ctx, q)
}

func (a *Aggregator) publishIfCurrent(pub Publication) {
	a.emitMu.Lock()
	defer a.emitMu.Unlock()

	a.mu.Lock()
	if pub.Seq != a.seq {
		latest := a.seq
		a.mu.Unlock()
		metrics.StaleDiscarded()
		a.log.Debug("discarding stale fan-out",
			zap.String("query", pub.Query),
			zap.Uint64("seq", pub.Seq),
			zap.Uint64("latest", latest),
		)
		return
	}
	a.current = pub
	a.mu.Unlock()

	a.publisher(pub)
}
