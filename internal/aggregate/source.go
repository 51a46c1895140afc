// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"context"

	"github.com/IT2357/catalog-engine/pkg/types"
)

// unreadableTitle is the title given to records a normalizer could not read.
const unreadableTitle = "(unreadable record)"

// Source searches a single record store. Each source kind (rooms, guests,
// bookings, menu items) implements this interface.
type Source interface {
	Kind() string
	Fetch(ctx context.Context, query string) ([]types.ResultRecord, error)
}

// Adapter fetches native records of type T matching a query. It may fail;
// the aggregator treats a failure as zero records from that source.
type Adapter[T any] func(ctx context.Context, query string) ([]T, error)

// Normalizer maps a native record to a ResultRecord. It must not fail; a
// panic is recovered into a degraded record.
type Normalizer[T any] func(T) types.ResultRecord

// NewSource pairs an adapter with the normalizer for its native records.
func NewSource[T any](kind string, fetch Adapter[T], normalize Normalizer[T]) Source {
	return &adaptedSource[T]{kind: kind, fetch: fetch, normalize: normalize}
}

type adaptedSource[T any] struct {
	kind      string
	fetch     Adapter[T]
	normalize Normalizer[T]
}

func (s *adaptedSource[T]) Kind() string { return s.kind }

func (s *adaptedSource[T]) Fetch(ctx context.Context, query string) ([]types.ResultRecord, error) {
	native, err := s.fetch(ctx, query)
	if err != nil {
		return nil, err
	}
	records := make([]types.ResultRecord, 0, len(native))
	for _, n := range native {
		records = append(records, s.normalizeOne(n))
	}
	return records, nil
}

func (s *adaptedSource[T]) normalizeOne(n T) (rec types.ResultRecord) {
	defer func() {
		if recover() != nil {
			rec = types.ResultRecord{
				SourceKind: s.kind,
				Title:      unreadableTitle,
				Raw:        n,
				Degraded:   true,
			}
		}
	}()
	rec = s.normalize(n)
	rec.SourceKind = s.kind
	return rec
}
