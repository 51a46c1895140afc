// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/IT2357/catalog-engine/pkg/types"
)

// ResultFile is the on-disk snapshot of a search and its merged results.
// A saved search can be reloaded and shown again without querying sources.
type ResultFile struct {
	Query   string               `yaml:"query"`
	Results []types.ResultRecord `yaml:"results"`
	Summary ResultSummary        `yaml:"summary"`
}

// ResultSummary stores result statistics and a timestamp.
type ResultSummary struct {
	Total           int       `yaml:"total"`
	FromCache       bool      `yaml:"from_cache,omitempty"`
	DegradedSources []string  `yaml:"degraded_sources,omitempty"`
	Timestamp       time.Time `yaml:"timestamp"`
}

// WriteResultFile saves a publication to a YAML file.
func WriteResultFile(path string, p Publication) error {
	rf := ResultFile{
		Query:   p.Query,
		Results: p.Records,
		Summary: ResultSummary{
			Total:           len(p.Records),
			FromCache:       p.FromCache,
			DegradedSources: p.DegradedSources,
			Timestamp:       time.Now().UTC(),
		},
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultFile loads a previously saved result file from disk.
func ReadResultFile(path string) (*ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	var rf ResultFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing result file: %w", err)
	}
	return &rf, nil
}

// Publication converts the snapshot back into a publication for display.
func (rf *ResultFile) Publication() Publication {
	return Publication{
		Query:           rf.Query,
		Records:         rf.Results,
		FromCache:       rf.Summary.FromCache,
		DegradedSources: rf.Summary.DegradedSources,
	}
}
