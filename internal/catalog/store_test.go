// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IT2357/catalog-engine/internal/aggregate"
	"github.com/IT2357/catalog-engine/internal/selection"
	"github.com/IT2357/catalog-engine/pkg/types"
)

const sampleYAML = `
categories:
  - id: breakfast
    name: Breakfast
  - id: mains
    name: Mains
items:
  - id: egg-hopper
    name: Egg Hopper
    description: bowl-shaped rice pancake
    price: 350
    category_id: breakfast
    flags: [isBreakfast]
    available: true
  - id: rice-curry
    name: Rice and Curry
    description: three vegetable curries
    price: 900
    category_id: mains
    flags: [isLunch, isDinner]
    available: true
  - id: 100%_juice
    name: 100% Juice
    price: 250
    flags: [isBreakfast, isLunch]
    available: false
records:
  - kind: rooms
    id: "101"
    title: Room 101
    subtitle: Deluxe sea view
    icon: bed
    payload:
      floor: 1
  - kind: rooms
    id: "204"
    title: Room 204
    subtitle: Standard garden view
  - kind: guests
    id: g-1
    title: Nimal Perera
    subtitle: Room 101
    target: /guests/g-1
`

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.StoreConfig{Dir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func importSample(t *testing.T, s *Store) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	file, err := LoadCatalogFile(path)
	require.NoError(t, err)

	var buf bytes.Buffer
	summary, err := s.Import(context.Background(), file, &buf)
	require.NoError(t, err)
	assert.Equal(t, ImportSummary{Categories: 2, Items: 3, Records: 3}, summary)
	assert.Contains(t, buf.String(), "items: 3")
}

func TestImportAndLoad(t *testing.T) {
	s := testStore(t)
	importSample(t, s)
	ctx := context.Background()

	cats, err := s.LoadCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []types.Category{{ID: "breakfast", Name: "Breakfast"}, {ID: "mains", Name: "Mains"}}, cats)

	items, err := s.LoadItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "egg-hopper", items[0].ID)
	assert.Equal(t, []string{"isDinner", "isLunch"}, items[1].Flags)
	assert.Equal(t, 900.0, items[1].Price)
	assert.False(t, items[2].Available)
	assert.Empty(t, items[2].CategoryID)

	kinds, err := s.Kinds(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"guests", "rooms"}, kinds)
}

func TestImportIsIdempotentAndReplacesFlags(t *testing.T) {
	s := testStore(t)
	importSample(t, s)

	file := &CatalogFile{
		Categories: []types.Category{{ID: "mains", Name: "Main Courses"}},
		Items: []types.CatalogItem{
			{ID: "rice-curry", Name: "Rice and Curry", Price: 950, CategoryID: "mains", Flags: []string{"isDinner"}, Available: true},
		},
	}
	_, err := s.Import(context.Background(), file, &bytes.Buffer{})
	require.NoError(t, err)

	items, err := s.LoadItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)
	for _, it := range items {
		if it.ID == "rice-curry" {
			assert.Equal(t, 950.0, it.Price)
			assert.Equal(t, []string{"isDinner"}, it.Flags)
		}
	}
}

func TestImportRejectsInvalidFile(t *testing.T) {
	s := testStore(t)
	file := &CatalogFile{
		Items: []types.CatalogItem{
			{ID: "x", Name: "X", Price: -1},
			{ID: "y", Name: "Y", CategoryID: "ghost"},
		},
	}
	_, err := s.Import(context.Background(), file, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative price")
	assert.Contains(t, err.Error(), "unknown category")

	items, err := s.LoadItems(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRecordSource(t *testing.T) {
	s := testStore(t)
	importSample(t, s)

	rooms := s.RecordSource("rooms")
	assert.Equal(t, "rooms", rooms.Kind())

	got, err := rooms.Fetch(context.Background(), "SEA")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "101", got[0].ID)
	assert.Equal(t, "rooms", got[0].SourceKind)
	assert.Equal(t, "/rooms/101", got[0].Target)
	assert.Equal(t, map[string]any{"floor": float64(1)}, got[0].Raw)

	guests, err := s.RecordSource("guests").Fetch(context.Background(), "room 101")
	require.NoError(t, err)
	require.Len(t, guests, 1)
	assert.Equal(t, "/guests/g-1", guests[0].Target)
}

func TestItemSourceEscapesWildcards(t *testing.T) {
	s := testStore(t)
	importSample(t, s)

	menu := s.ItemSource("menu")
	got, err := menu.Fetch(context.Background(), "100%")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "100% Juice", got[0].Title)
	assert.Contains(t, got[0].Subtitle, "unavailable")

	got, err = menu.Fetch(context.Background(), "%")
	require.NoError(t, err)
	assert.Len(t, got, 1, "a literal percent only matches names containing one")
}

func TestStoreBacksAggregatorAndEngine(t *testing.T) {
	s := testStore(t)
	importSample(t, s)
	ctx := context.Background()

	agg, err := aggregate.New(types.AggregatorConfig{},
		[]aggregate.Source{s.RecordSource("rooms"), s.RecordSource("guests"), s.ItemSource("menu")})
	require.NoError(t, err)
	defer agg.Close()

	pub, err := agg.Search(ctx, "101")
	require.NoError(t, err)
	require.Len(t, pub.Records, 2)
	assert.Equal(t, "rooms", pub.Records[0].SourceKind)
	assert.Equal(t, "guests", pub.Records[1].SourceKind)

	eng, err := selection.NewEngine(ctx, s, types.SelectionConfig{DefaultPlan: "half-board"})
	require.NoError(t, err)
	items, err := eng.Filtered(selection.Filter{CategoryID: types.AllCategories})
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestLoadCatalogFileErrors(t *testing.T) {
	_, err := LoadCatalogFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading catalog file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("items: [:"), 0o644))
	_, err = LoadCatalogFile(path)
	assert.ErrorContains(t, err, "parsing catalog file")
}

func TestSampleCatalogFileIsValid(t *testing.T) {
	file, err := LoadCatalogFile(filepath.Join("..", "..", "testdata", "catalog.yaml"))
	require.NoError(t, err)
	require.NoError(t, file.Validate())
	assert.NotEmpty(t, file.Items)
	assert.NotEmpty(t, file.Records)
}
