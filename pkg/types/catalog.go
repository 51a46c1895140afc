// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// AllCategories is the category filter sentinel that matches every item.
const AllCategories = "all"

// CatalogItem is a selectable menu item. Items are supplied wholesale by a
// catalog loader; the engine only filters and reads them.
type CatalogItem struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Price is the per-unit price. Never negative.
	Price float64 `json:"price" yaml:"price"`

	// CategoryID may be empty; such items only match the "all" category.
	CategoryID string `json:"category_id,omitempty" yaml:"category_id,omitempty"`

	// Flags lists the eligibility slots the item is valid under
	// (e.g. "isBreakfast", "isDinner").
	Flags []string `json:"flags,omitempty" yaml:"flags,omitempty"`

	Available bool `json:"available" yaml:"available"`
}

// HasFlag reports whether the item carries the named eligibility flag.
func (i CatalogItem) HasFlag(flag string) bool {
	for _, f := range i.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// Category groups catalog items.
type Category struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// SelectionPlan is a named eligibility rule. An item is eligible under the
// plan when it carries at least one of RequiredFlags. An empty
// RequiredFlags list places no restriction on items.
type SelectionPlan struct {
	ID            string   `json:"id" yaml:"id" mapstructure:"id"`
	Name          string   `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	RequiredFlags []string `json:"required_flags,omitempty" yaml:"required_flags,omitempty" mapstructure:"required_flags"`
}

// Unrestricted reports whether the plan admits every item.
func (p SelectionPlan) Unrestricted() bool {
	return len(p.RequiredFlags) == 0
}

// SelectionLine is one (item, quantity) pair in a selection. Item is a
// snapshot taken when the line was created. Quantity is always >= 1 while
// the line exists.
type SelectionLine struct {
	Item     CatalogItem `json:"item" yaml:"item"`
	Quantity int         `json:"quantity" yaml:"quantity"`
}

// Subtotal returns price times quantity for the line.
func (l SelectionLine) Subtotal() float64 {
	return l.Item.Price * float64(l.Quantity)
}

// Totals is the derived price summary of a selection for a stay.
type Totals struct {
	ItemsTotal     float64 `json:"items_total" yaml:"items_total"`
	PerNightTotal  float64 `json:"per_night_total" yaml:"per_night_total"`
	WholeStayTotal float64 `json:"whole_stay_total" yaml:"whole_stay_total"`
	Nights         int     `json:"nights" yaml:"nights"`
	Guests         int     `json:"guests" yaml:"guests"`
}
