// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists the menu catalog and the searchable hotel records
// (rooms, guests, bookings) in SQLite. The Store loads the catalog for
// selection sessions and backs one search source per record kind.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/IT2357/catalog-engine/pkg/types"
)

const (
	dbFile             = "catalog.db"
	defaultSearchLimit = 25
)

// Store manages the catalog SQLite database.
type Store struct {
	db          *sql.DB
	searchLimit int
}

// NewStore opens or creates the catalog database at dir/catalog.db and
// creates the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	limit := cfg.SearchLimit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	s := &Store{db: db, searchLimit: limit}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS categories (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price REAL NOT NULL CHECK (price >= 0),
			category_id TEXT NOT NULL DEFAULT '',
			available INTEGER NOT NULL DEFAULT 1,
			position INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS item_flags (
			item_id TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
			flag TEXT NOT NULL,
			PRIMARY KEY (item_id, flag)
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			kind TEXT NOT NULL,
			id TEXT NOT NULL,
			title TEXT NOT NULL,
			subtitle TEXT NOT NULL DEFAULT '',
			icon TEXT NOT NULL DEFAULT '',
			target TEXT NOT NULL DEFAULT '',
			payload TEXT NOT NULL DEFAULT '{}',
			PRIMARY KEY (kind, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_category ON items(category_id)`,
		`CREATE INDEX IF NOT EXISTS idx_records_kind ON records(kind)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// ImportSummary holds counts from a catalog import.
type ImportSummary struct {
	Categories int
	Items      int
	Records    int
}

// Import upserts every category, item, and record in file within a single
// transaction. Item flags are replaced, not merged.
func (s *Store) Import(ctx context.Context, file *CatalogFile, w io.Writer) (ImportSummary, error) {
	if err := file.Validate(); err != nil {
		return ImportSummary{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var summary ImportSummary

	for i, c := range file.Categories {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO categories (id, name, position) VALUES (?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET name=excluded.name, position=excluded.position`,
			c.ID, c.Name, i)
		if err != nil {
			return ImportSummary{}, fmt.Errorf("upserting category %s: %w", c.ID, err)
		}
		summary.Categories++
	}

	for i, item := range file.Items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO items (id, name, description, price, category_id, available, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
				name=excluded.name, description=excluded.description, price=excluded.price,
				category_id=excluded.category_id, available=excluded.available, position=excluded.position`,
			item.ID, item.Name, item.Description, item.Price, item.CategoryID, item.Available, i)
		if err != nil {
			return ImportSummary{}, fmt.Errorf("upserting item %s: %w", item.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM item_flags WHERE item_id = ?`, item.ID); err != nil {
			return ImportSummary{}, fmt.Errorf("clearing flags for %s: %w", item.ID, err)
		}
		for _, flag := range item.Flags {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO item_flags (item_id, flag) VALUES (?, ?)`, item.ID, flag); err != nil {
				return ImportSummary{}, fmt.Errorf("inserting flag %s for %s: %w", flag, item.ID, err)
			}
		}
		summary.Items++
	}

	for _, r := range file.Records {
		payload, err := json.Marshal(r.Payload)
		if err != nil {
			return ImportSummary{}, fmt.Errorf("encoding payload for %s/%s: %w", r.Kind, r.ID, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO records (kind, id, title, subtitle, icon, target, payload)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(kind, id) DO UPDATE SET
				title=excluded.title, subtitle=excluded.subtitle, icon=excluded.icon,
				target=excluded.target, payload=excluded.payload`,
			r.Kind, r.ID, r.Title, r.Subtitle, r.Icon, r.Target, string(payload))
		if err != nil {
			return ImportSummary{}, fmt.Errorf("upserting record %s/%s: %w", r.Kind, r.ID, err)
		}
		summary.Records++
	}

	if err := tx.Commit(); err != nil {
		return ImportSummary{}, fmt.Errorf("committing import: %w", err)
	}

	fmt.Fprintf(w, "imported categories: %d, items: %d, records: %d\n",
		summary.Categories, summary.Items, summary.Records)
	return summary, nil
}

// LoadItems returns every catalog item in import order.
func (s *Store) LoadItems(ctx context.Context) ([]types.CatalogItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, price, category_id, available FROM items ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var items []types.CatalogItem
	index := make(map[string]int)
	for rows.Next() {
		var item types.CatalogItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.CategoryID, &item.Available); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		index[item.ID] = len(items)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	flagRows, err := s.db.QueryContext(ctx, `SELECT item_id, flag FROM item_flags ORDER BY item_id, flag`)
	if err != nil {
		return nil, fmt.Errorf("querying item flags: %w", err)
	}
	defer flagRows.Close()

	for flagRows.Next() {
		var itemID, flag string
		if err := flagRows.Scan(&itemID, &flag); err != nil {
			return nil, fmt.Errorf("scanning item flag: %w", err)
		}
		if i, ok := index[itemID]; ok {
			items[i].Flags = append(items[i].Flags, flag)
		}
	}
	return items, flagRows.Err()
}

// LoadCategories returns every category in import order.
func (s *Store) LoadCategories(ctx context.Context) ([]types.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	var categories []types.Category
	for rows.Next() {
		var c types.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// Kinds returns the distinct record kinds in the store, sorted.
func (s *Store) Kinds(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT kind FROM records ORDER BY kind`)
	if err != nil {
		return nil, fmt.Errorf("querying record kinds: %w", err)
	}
	defer rows.Close()

	var kinds []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning kind: %w", err)
		}
		kinds = append(kinds, k)
	}
	return kinds, rows.Err()
}
