// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"errors"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/IT2357/catalog-engine/pkg/types"
)

// Record is a searchable hotel record (room, guest, booking) as stored in
// a catalog file.
type Record struct {
	Kind     string         `yaml:"kind"`
	ID       string         `yaml:"id"`
	Title    string         `yaml:"title"`
	Subtitle string         `yaml:"subtitle,omitempty"`
	Icon     string         `yaml:"icon,omitempty"`
	Target   string         `yaml:"target,omitempty"`
	Payload  map[string]any `yaml:"payload,omitempty"`
}

// CatalogFile is the on-disk YAML form of a catalog import.
type CatalogFile struct {
	Categories []types.Category    `yaml:"categories"`
	Items      []types.CatalogItem `yaml:"items"`
	Records    []Record            `yaml:"records"`
}

// LoadCatalogFile reads and parses a catalog YAML file.
func LoadCatalogFile(path string) (*CatalogFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	var f CatalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog file %s: %w", path, err)
	}
	return &f, nil
}

// Validate checks required fields, unique IDs, and non-negative prices.
func (f *CatalogFile) Validate() error {
	var errs []error

	cats := make(map[string]bool, len(f.Categories))
	for _, c := range f.Categories {
		if c.ID == "" {
			errs = append(errs, errors.New("category with empty id"))
			continue
		}
		if cats[c.ID] {
			errs = append(errs, fmt.Errorf("duplicate category %q", c.ID))
		}
		cats[c.ID] = true
	}

	items := make(map[string]bool, len(f.Items))
	for _, item := range f.Items {
		switch {
		case item.ID == "":
			errs = append(errs, fmt.Errorf("item %q has empty id", item.Name))
			continue
		case items[item.ID]:
			errs = append(errs, fmt.Errorf("duplicate item %q", item.ID))
		case item.Price < 0:
			errs = append(errs, fmt.Errorf("item %q has negative price %.2f", item.ID, item.Price))
		case item.CategoryID != "" && !cats[item.CategoryID]:
			errs = append(errs, fmt.Errorf("item %q references unknown category %q", item.ID, item.CategoryID))
		}
		items[item.ID] = true
	}

	for _, r := range f.Records {
		if r.Kind == "" || r.ID == "" {
			errs = append(errs, fmt.Errorf("record %q needs kind and id", r.Title))
		}
	}

	return errors.Join(errs...)
}
