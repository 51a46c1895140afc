// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the catalog engine:
// omni-search result records, menu catalog items, selection plans, cart
// lines, totals, and configuration.
package types

// ResultRecord is the normalized projection of one native record returned
// by a search source. Records are immutable once produced by a source's
// normalizer and are owned by the merged result list that holds them.
type ResultRecord struct {
	// SourceKind identifies the source that produced the record (e.g. "rooms", "guests").
	SourceKind string `json:"source_kind" yaml:"source_kind"`

	// ID is the record identifier within its source.
	ID string `json:"id" yaml:"id"`

	// Title is the primary display line.
	Title string `json:"title" yaml:"title"`

	// Subtitle is the secondary display line.
	Subtitle string `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`

	// Icon is an icon name hint for the host; the engine never resolves it.
	Icon string `json:"icon,omitempty" yaml:"icon,omitempty"`

	// Raw is the native record as the source returned it.
	Raw any `json:"raw,omitempty" yaml:"raw,omitempty"`

	// Target is an opaque navigation target the host routes to.
	Target string `json:"target,omitempty" yaml:"target,omitempty"`

	// Degraded is set when the normalizer could not read the native record.
	Degraded bool `json:"degraded,omitempty" yaml:"degraded,omitempty"`
}
