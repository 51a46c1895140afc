// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// FormatTable writes a publication as a human-readable table to w.
func FormatTable(p Publication, w io.Writer) {
	if len(p.Records) == 0 {
		fmt.Fprintln(w, "No results found.")
		writeDegraded(p, w)
		return
	}

	fmt.Fprintf(w, "%-4s  %-10s  %-12s  %-40s  %-30s  %s\n",
		"#", "Source", "ID", "Title", "Subtitle", "Target")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for i, r := range p.Records {
		fmt.Fprintf(w, "%-4d  %-10s  %-12s  %-40s  %-30s  %s\n",
			i+1, truncate(r.SourceKind, 10), truncate(r.ID, 12),
			truncate(r.Title, 40), truncate(r.Subtitle, 30), r.Target)
	}

	fmt.Fprintf(w, "\n%d results", len(p.Records))
	if p.FromCache {
		fmt.Fprint(w, " (cached)")
	}
	fmt.Fprintln(w)
	writeDegraded(p, w)
}

func writeDegraded(p Publication, w io.Writer) {
	if p.Degraded {
		fmt.Fprintln(w, "warning: every source failed; try again")
		return
	}
	if len(p.DegradedSources) > 0 {
		fmt.Fprintf(w, "warning: %d source(s) unavailable: %s\n",
			len(p.DegradedSources), strings.Join(p.DegradedSources, ", "))
	}
}

// FormatJSON writes a publication as indented JSON to w.
func FormatJSON(p Publication, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
