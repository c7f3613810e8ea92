package search

import (
	"context"

	"github.com/hearthside/propsim/internal/domain/facet"
	"github.com/hearthside/propsim/internal/domain/listing"
	"github.com/hearthside/propsim/internal/domain/search/result"
)

// VectorStore is the per-facet vector index collaborator.
type VectorStore interface {
	// GetFacetVector returns the stored vector for a listing in one facet.
	// Returns domain.ErrListingNotFound when the listing has no vector there.
	GetFacetVector(ctx context.Context, id string, f facet.Facet) ([]float32, error)

	// QueryNeighbors returns up to limit nearest neighbors to the vector in
	// one facet index, ordered by descending similarity.
	QueryNeighbors(ctx context.Context, f facet.Facet, vector []float32, limit int) ([]result.Result, error)
}

// ListingReader hydrates listing records by ID.
type ListingReader interface {
	// GetListings returns the records for the given IDs in one batched call.
	// IDs without a stored record are simply absent from the map.
	GetListings(ctx context.Context, ids []string) (map[string]listing.Listing, error)
}
