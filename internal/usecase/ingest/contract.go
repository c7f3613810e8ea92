package ingest

import (
	"context"

	"github.com/hearthside/propsim/internal/domain/facet"
	"github.com/hearthside/propsim/internal/domain/listing"
)

// VectorWriter stores per-facet vectors.
type VectorWriter interface {
	UpsertFacetVector(ctx context.Context, id string, f facet.Facet, vec []float32) error
	DeleteFacetVector(ctx context.Context, id string, f facet.Facet) error
}

// RecordStore persists listing records. Get returns domain.ErrListingNotFound
// when no record exists.
type RecordStore interface {
	Save(ctx context.Context, l *listing.Listing) error
	Get(ctx context.Context, id string) (listing.Listing, error)
	Delete(ctx context.Context, id string) error
}
