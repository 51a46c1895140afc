// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/IT2357/catalog-engine/internal/aggregate"
	"github.com/IT2357/catalog-engine/pkg/types"
)

// recordRow is the native form of a stored record.
type recordRow struct {
	Kind     string
	ID       string
	Title    string
	Subtitle string
	Icon     string
	Target   string
	Payload  string
}

// RecordSource returns a search source over stored records of kind.
func (s *Store) RecordSource(kind string) aggregate.Source {
	return aggregate.NewSource(kind, func(ctx context.Context, query string) ([]recordRow, error) {
		return s.searchRecords(ctx, kind, query)
	}, normalizeRecord)
}

// ItemSource returns a search source over menu items, reported as kind.
func (s *Store) ItemSource(kind string) aggregate.Source {
	return aggregate.NewSource(kind, s.searchItems, normalizeItem)
}

// searchRecords matches title or subtitle by case-insensitive substring.
func (s *Store) searchRecords(ctx context.Context, kind, query string) ([]recordRow, error) {
	pattern := likePattern(query)
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, id, title, subtitle, icon, target, payload FROM records
		 WHERE kind = ? AND (title LIKE ? ESCAPE '\' OR subtitle LIKE ? ESCAPE '\')
		 ORDER BY title, id
		 LIMIT ?`,
		kind, pattern, pattern, s.searchLimit)
	if err != nil {
		return nil, fmt.Errorf("searching %s records: %w", kind, err)
	}
	defer rows.Close()

	var out []recordRow
	for rows.Next() {
		var r recordRow
		if err := rows.Scan(&r.Kind, &r.ID, &r.Title, &r.Subtitle, &r.Icon, &r.Target, &r.Payload); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// searchItems matches item name or description by case-insensitive substring.
func (s *Store) searchItems(ctx context.Context, query string) ([]types.CatalogItem, error) {
	pattern := likePattern(query)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, price, category_id, available FROM items
		 WHERE name LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\'
		 ORDER BY position, id
		 LIMIT ?`,
		pattern, pattern, s.searchLimit)
	if err != nil {
		return nil, fmt.Errorf("searching items: %w", err)
	}
	defer rows.Close()

	var out []types.CatalogItem
	for rows.Next() {
		var item types.CatalogItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.CategoryID, &item.Available); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func normalizeRecord(r recordRow) types.ResultRecord {
	rec := types.ResultRecord{
		ID:       r.ID,
		Title:    r.Title,
		Subtitle: r.Subtitle,
		Icon:     r.Icon,
		Target:   r.Target,
	}
	if rec.Target == "" {
		rec.Target = "/" + r.Kind + "/" + r.ID
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(r.Payload), &payload); err != nil {
		rec.Degraded = true
	} else {
		rec.Raw = payload
	}
	return rec
}

func normalizeItem(item types.CatalogItem) types.ResultRecord {
	subtitle := fmt.Sprintf("%.2f", item.Price)
	if item.CategoryID != "" {
		subtitle = item.CategoryID + " · " + subtitle
	}
	if !item.Available {
		subtitle += " (unavailable)"
	}
	return types.ResultRecord{
		ID:       item.ID,
		Title:    item.Name,
		Subtitle: subtitle,
		Icon:     "menu",
		Raw:      item,
		Target:   "/menu/items/" + item.ID,
	}
}

// likePattern wraps q for a substring LIKE match, escaping wildcards.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}
