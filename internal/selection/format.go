// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package selection

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/IT2357/catalog-engine/pkg/types"
)

// FormatItems writes the filtered catalog as a table to w.
func FormatItems(items []types.CatalogItem, w io.Writer) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No matching items.")
		return
	}

	fmt.Fprintf(w, "%-12s  %-30s  %-12s  %10s  %s\n", "ID", "Name", "Category", "Price", "Flags")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, item := range items {
		fmt.Fprintf(w, "%-12s  %-30s  %-12s  %10.2f  %s\n",
			item.ID, item.Name, item.CategoryID, item.Price, strings.Join(item.Flags, ","))
	}
	fmt.Fprintf(w, "\n%d items\n", len(items))
}

// FormatCategories writes category names as a single line to w.
func FormatCategories(categories []types.Category, w io.Writer) {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	fmt.Fprintf(w, "Categories: %s\n", strings.Join(names, ", "))
}

// FormatSummary writes selection lines and totals to w.
func FormatSummary(s Summary, w io.Writer) {
	fmt.Fprintf(w, "Plan: %s\n", s.Plan.ID)
	if len(s.Lines) == 0 {
		fmt.Fprintln(w, "Selection is empty.")
	} else {
		fmt.Fprintf(w, "%-12s  %-30s  %4s  %10s  %10s\n", "ID", "Name", "Qty", "Price", "Subtotal")
		fmt.Fprintln(w, strings.Repeat("-", 74))
		for _, l := range s.Lines {
			fmt.Fprintf(w, "%-12s  %-30s  %4d  %10.2f  %10.2f\n",
				l.Item.ID, l.Item.Name, l.Quantity, l.Item.Price, l.Subtotal())
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Items total:      %10.2f\n", s.Totals.ItemsTotal)
	fmt.Fprintf(w, "Per night:        %10.2f\n", s.Totals.PerNightTotal)
	fmt.Fprintf(w, "Whole stay:       %10.2f  (%d nights x %d guests)\n",
		s.Totals.WholeStayTotal, s.Totals.Nights, s.Totals.Guests)
}

// FormatJSON writes v as indented JSON to w.
func FormatJSON(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
