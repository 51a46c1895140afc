// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package selection

import (
	"strings"

	"github.com/IT2357/catalog-engine/pkg/types"
)

// Filter holds the user-supplied catalog filters. All of them must match
// for an item to be shown.
type Filter struct {
	// Term is matched case-insensitively against name and description.
	Term string

	// CategoryID restricts items to one category; "" or types.AllCategories matches all.
	CategoryID string

	// PlanID selects the eligibility plan; "" uses the engine's active plan.
	PlanID string
}

// MatchesText reports whether the item's name or description contains term,
// ignoring case. An empty term matches every item.
func MatchesText(item types.CatalogItem, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(item.Name), term) ||
		strings.Contains(strings.ToLower(item.Description), term)
}

// MatchesPlan reports whether the item is eligible under plan: the plan has
// no required flags, or the item carries at least one of them.
func MatchesPlan(item types.CatalogItem, plan types.SelectionPlan) bool {
	if plan.Unrestricted() {
		return true
	}
	for _, flag := range plan.RequiredFlags {
		if item.HasFlag(flag) {
			return true
		}
	}
	return false
}

// MatchesCategory reports whether the item belongs to categoryID. The
// "all" sentinel (or an empty ID) matches every item, including items
// without a category.
func MatchesCategory(item types.CatalogItem, categoryID string) bool {
	if categoryID == "" || categoryID == types.AllCategories {
		return true
	}
	return item.CategoryID == categoryID
}

// FilterItems returns the available items matching term, category, and plan,
// in catalog order.
func FilterItems(items []types.CatalogItem, plan types.SelectionPlan, term, categoryID string) []types.CatalogItem {
	out := make([]types.CatalogItem, 0, len(items))
	for _, item := range items {
		if item.Available &&
			MatchesText(item, term) &&
			MatchesPlan(item, plan) &&
			MatchesCategory(item, categoryID) {
			out = append(out, item)
		}
	}
	return out
}

// AvailableCategories returns the categories, in configured order, that
// hold at least one available item eligible under plan. Text and category
// filters do not apply. With an unrestricted plan every
// configured category is available, unless the catalog has no items.
func AvailableCategories(items []types.CatalogItem, categories []types.Category, plan types.SelectionPlan) []types.Category {
	out := []types.Category{}
	if len(items) == 0 {
		return out
	}
	if plan.Unrestricted() {
		return append(out, categories...)
	}

	present := make(map[string]bool)
	for _, item := range items {
		if item.CategoryID == "" || !item.Available || !MatchesPlan(item, plan) {
			continue
		}
		present[item.CategoryID] = true
	}
	for _, c := range categories {
		if present[c.ID] {
			out = append(out, c)
		}
	}
	return out
}
