// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package selection

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySelection is returned when confirming a selection with no lines.
	ErrEmptySelection = errors.New("selection is empty")

	// ErrCatalogUnavailable matches every CatalogUnavailableError.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	ErrUnknownPlan = errors.New("unknown plan")
	ErrUnknownItem = errors.New("unknown item")
	ErrNotEligible = errors.New("item not eligible")

	// ErrInvalidStay is returned for totals requested with nights or guests below 1.
	ErrInvalidStay = errors.New("nights and guests must be at least 1")
)

// CatalogUnavailableError reports a catalog loader failure. The engine
// cannot run without a catalog and does not retry on its own.
type CatalogUnavailableError struct {
	// Part is the part of the catalog that failed to load: "items" or "categories".
	Part string
	Err  error
}

func (e *CatalogUnavailableError) Error() string {
	return fmt.Sprintf("catalog unavailable: loading %s: %v", e.Part, e.Err)
}

func (e *CatalogUnavailableError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrCatalogUnavailable) succeed.
func (e *CatalogUnavailableError) Is(target error) bool {
	return target == ErrCatalogUnavailable
}

// InvalidQuantityError is raised as a panic when a mutation would leave a
// line present with a quantity below 1. It signals a bug, not bad input.
type InvalidQuantityError struct {
	ItemID   string
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d for present line %s", e.Quantity, e.ItemID)
}
