package domain

import "errors"

var (
	// ErrListingNotFound signals a missing listing record.
	ErrListingNotFound = errors.New("listing not found")
	// ErrQueryListingNotFound signals that the query listing has no vector in a facet.
	// Every facet is mandatory for fusion quality, so one missing vector fails the search.
	ErrQueryListingNotFound = errors.New("query listing not indexed in facet")
	// ErrUnknownSearchMode signals an unrecognized weight-profile name.
	ErrUnknownSearchMode = errors.New("unknown search mode")
	// ErrInvalidWeight signals a negative facet weight in a profile.
	ErrInvalidWeight = errors.New("invalid facet weight")
	// ErrVectorDimMismatch signals a vector dimension mismatch on ingest.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrMissingVisualVector signals an ingest without a precomputed image embedding.
	ErrMissingVisualVector = errors.New("visual vector is required")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
