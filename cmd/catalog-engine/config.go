// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/IT2357/catalog-engine/internal/aggregate"
	"github.com/IT2357/catalog-engine/internal/catalog"
	"github.com/IT2357/catalog-engine/internal/httputil"
	"github.com/IT2357/catalog-engine/internal/rest"
	"github.com/IT2357/catalog-engine/pkg/types"
)

// menuKind is the source kind of the catalog item source added when no
// sources are configured.
const menuKind = "menu"

// engineConfig assembles the engine configuration from viper, applies
// defaults, and validates it.
func engineConfig() (types.EngineConfig, error) {
	cfg := types.EngineConfig{
		Aggregator: types.AggregatorConfig{
			Debounce:       viper.GetDuration("aggregator.debounce"),
			MinQueryLength: viper.GetInt("aggregator.min_query_length"),
			CacheSize:      viper.GetInt("aggregator.cache_size"),
		},
		Selection: types.SelectionConfig{
			DefaultPlan: viper.GetString("selection.default_plan"),
		},
		Store: types.StoreConfig{
			Dir:         viper.GetString("store.dir"),
			SearchLimit: viper.GetInt("store.search_limit"),
		},
		Server: types.ServerConfig{
			Addr:            viper.GetString("server.addr"),
			ShutdownTimeout: viper.GetDuration("server.shutdown_timeout"),
		},
		Logging: types.LoggingConfig{
			Env:   viper.GetString("logging.env"),
			Level: viper.GetString("logging.level"),
		},
	}

	if err := viper.UnmarshalKey("sources", &cfg.Sources); err != nil {
		return cfg, fmt.Errorf("reading sources: %w", err)
	}
	if err := viper.UnmarshalKey("selection.plans", &cfg.Selection.Plans); err != nil {
		return cfg, fmt.Errorf("reading selection plans: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// buildSources turns the configured sources into aggregate sources in
// configured order. With no sources configured, every record kind in the
// store is searched, followed by the menu.
func buildSources(ctx context.Context, cfg types.EngineConfig, store *catalog.Store) ([]aggregate.Source, error) {
	if len(cfg.Sources) == 0 {
		kinds, err := store.Kinds(ctx)
		if err != nil {
			return nil, err
		}
		sources := make([]aggregate.Source, 0, len(kinds)+1)
		for _, k := range kinds {
			sources = append(sources, store.RecordSource(k))
		}
		return append(sources, store.ItemSource(menuKind)), nil
	}

	sources := make([]aggregate.Source, 0, len(cfg.Sources))
	for _, sc := range cfg.Sources {
		switch sc.Type {
		case types.SourceSQLite:
			sources = append(sources, store.RecordSource(sc.Kind))
		case types.SourceItems:
			sources = append(sources, store.ItemSource(sc.Kind))
		case types.SourceREST:
			src, err := rest.NewSource(sc, httputil.NewClient(sc.HTTPConfig), loadedSecrets.Token(sc.Kind))
			if err != nil {
				return nil, err
			}
			sources = append(sources, src)
		}
		log.Debug("source configured", zap.String("kind", sc.Kind), zap.String("type", string(sc.Type)))
	}
	return sources, nil
}

// newAggregator builds an aggregator over the configured sources. The store
// must stay open for the aggregator's lifetime.
func newAggregator(ctx context.Context, cfg types.EngineConfig, store *catalog.Store, opts ...aggregate.Option) (*aggregate.Aggregator, error) {
	sources, err := buildSources(ctx, cfg, store)
	if err != nil {
		return nil, err
	}
	opts = append([]aggregate.Option{aggregate.WithLogger(log)}, opts...)
	return aggregate.New(cfg.Aggregator, sources, opts...)
}
