// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IT2357/catalog-engine/pkg/types"
)

var curry = types.CatalogItem{ID: "c1", Name: "Chicken Curry", Price: 500, Available: true}

func TestIncrementDecrementRoundTrip(t *testing.T) {
	s := NewSelection()
	s.Increment(curry)
	s.Decrement(curry.ID)

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.Quantity(curry.ID))
	assert.Empty(t, s.Lines())
}

func TestIncrementAccumulates(t *testing.T) {
	s := NewSelection()
	s.Increment(curry)
	s.Increment(curry)
	s.Increment(curry)
	assert.Equal(t, 3, s.Quantity(curry.ID))
	assert.Equal(t, 1, s.Len())

	s.Decrement(curry.ID)
	assert.Equal(t, 2, s.Quantity(curry.ID))
}

func TestDecrementAbsentIsNoop(t *testing.T) {
	s := NewSelection()
	assert.NotPanics(t, func() { s.Decrement("missing") })
	assert.Equal(t, 0, s.Len())
}

func TestRemoveAll(t *testing.T) {
	s := NewSelection()
	s.Increment(curry)
	s.Increment(curry)
	s.RemoveAll(curry.ID)
	s.RemoveAll("missing")

	assert.Equal(t, 0, s.Len())
}

func TestLinesKeepInsertionOrder(t *testing.T) {
	rice := types.CatalogItem{ID: "r1", Price: 200}
	tea := types.CatalogItem{ID: "t1", Price: 100}

	s := NewSelection()
	s.Increment(rice)
	s.Increment(curry)
	s.Increment(tea)
	s.Increment(rice)
	s.RemoveAll(curry.ID)

	lines := s.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "r1", lines[0].Item.ID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, "t1", lines[1].Item.ID)
}

func TestSnapshotIgnoresLaterPriceChanges(t *testing.T) {
	item := curry
	item.Flags = []string{"isDinner"}

	s := NewSelection()
	s.Increment(item)

	item.Price = 9999
	item.Flags[0] = "changed"
	s.Increment(item)

	line := s.Lines()[0]
	assert.Equal(t, 500.0, line.Item.Price)
	assert.Equal(t, []string{"isDinner"}, line.Item.Flags)
	assert.Equal(t, 2, line.Quantity)
}

func TestTotals(t *testing.T) {
	s := NewSelection()
	s.Increment(curry)
	s.Increment(curry)

	got, err := s.Totals(3, 2)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, got.ItemsTotal)
	assert.Equal(t, 1000.0, got.PerNightTotal)
	assert.Equal(t, 6000.0, got.WholeStayTotal)
	assert.Equal(t, 3, got.Nights)
	assert.Equal(t, 2, got.Guests)
}

func TestTotalsEmptySelection(t *testing.T) {
	got, err := NewSelection().Totals(1, 1)
	require.NoError(t, err)
	assert.Zero(t, got.ItemsTotal)
	assert.Zero(t, got.WholeStayTotal)
}

func TestTotalsRejectsInvalidStay(t *testing.T) {
	s := NewSelection()
	for _, tc := range [][2]int{{0, 1}, {1, 0}, {-2, 3}} {
		_, err := s.Totals(tc[0], tc[1])
		assert.ErrorIs(t, err, ErrInvalidStay)
	}
}

func TestConfirm(t *testing.T) {
	s := NewSelection()
	_, err := s.Confirm()
	assert.ErrorIs(t, err, ErrEmptySelection)

	s.Increment(curry)
	lines, err := s.Confirm()
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestCheckPanicsOnInvalidQuantity(t *testing.T) {
	s := NewSelection()
	line := &types.SelectionLine{Item: curry, Quantity: 0}

	defer func() {
		r := recover()
		require.NotNil(t, r)
		qe, ok := r.(*InvalidQuantityError)
		require.True(t, ok)
		assert.Equal(t, "c1", qe.ItemID)
	}()
	s.check(line)
}
