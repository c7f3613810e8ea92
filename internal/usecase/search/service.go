// Package search implements similar-listing retrieval: per-facet KNN fan-out,
// weighted Reciprocal Rank Fusion, and structured post-filtering.
package search

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hearthside/propsim/internal/domain"
	"github.com/hearthside/propsim/internal/domain/facet"
	"github.com/hearthside/propsim/internal/domain/listing"
	"github.com/hearthside/propsim/internal/domain/search/filter"
	"github.com/hearthside/propsim/internal/domain/search/mode"
	"github.com/hearthside/propsim/internal/domain/search/profile"
	"github.com/hearthside/propsim/internal/domain/search/result"
	"github.com/hearthside/propsim/internal/metrics"
)

// Search parameter limits.
const (
	DefaultTopK = 10
	MaxTopK     = 100

	// DefaultOverFetchFactor: each facet over-fetches topK*N neighbors to
	// compensate for candidates later removed by exclusion and filtering.
	DefaultOverFetchFactor = 2
	// DefaultHydrationFactor: topK*N fused IDs are hydrated before filtering.
	DefaultHydrationFactor = 5
)

// Config holds the fusion and fan-out tuning knobs, immutable after startup.
type Config struct {
	RRFK            int
	OverFetchFactor int
	HydrationFactor int
}

// Match is a hydrated search candidate with its fused rank score.
type Match struct {
	Listing listing.Listing
	Score   float64
}

// Service coordinates multi-facet similar-listing search. It is stateless
// aside from immutable configuration and safe for concurrent use.
type Service struct {
	vectors  VectorStore
	listings ListingReader
	cfg      Config
	logger   *zap.Logger
}

// New creates a search service. Zero config fields fall back to defaults.
func New(vectors VectorStore, listings ListingReader, cfg Config, logger *zap.Logger) *Service {
	if cfg.RRFK <= 0 {
		cfg.RRFK = DefaultRRFK
	}
	if cfg.OverFetchFactor <= 0 {
		cfg.OverFetchFactor = DefaultOverFetchFactor
	}
	if cfg.HydrationFactor <= 0 {
		cfg.HydrationFactor = DefaultHydrationFactor
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{vectors: vectors, listings: listings, cfg: cfg, logger: logger}
}

// SearchSimilar returns up to topK listings similar to the query listing,
// ranked by weighted RRF over the per-facet neighbor lists and post-filtered
// by spec.
//
// Every facet is mandatory: a query listing missing any facet vector was never
// fully indexed, and searching without a facet would silently bias the ranking
// with no signal to the caller. The search fails closed instead.
func (s *Service) SearchSimilar(
	ctx context.Context,
	queryID string,
	m mode.Mode,
	spec filter.Spec,
	topK int,
) ([]Match, error) {
	if queryID == "" {
		return nil, fmt.Errorf("query listing ID is required")
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK > MaxTopK {
		topK = MaxTopK
	}

	weights, err := profile.ByMode(m)
	if err != nil {
		return nil, err
	}

	lists, err := s.fetchFacetNeighbors(ctx, queryID, topK*s.cfg.OverFetchFactor)
	if err != nil {
		return nil, err
	}

	fused, err := fuseWeightedRRF(lists, weights, s.cfg.RRFK)
	if err != nil {
		return nil, err
	}

	hydrated, err := s.hydrate(ctx, fused, queryID, topK*s.cfg.HydrationFactor)
	if err != nil {
		return nil, err
	}

	filtered := applyFilters(hydrated, spec, s.logger)

	if len(filtered) > topK {
		filtered = filtered[:topK]
	}

	metrics.SearchResultsReturned.WithLabelValues(string(m)).Observe(float64(len(filtered)))

	return filtered, nil
}

// fetchFacetNeighbors fans out per facet: fetch the query vector, then its
// nearest neighbors. Facet fetches are independent, so they run concurrently;
// the first failure cancels the sibling fetches and aborts the search.
func (s *Service) fetchFacetNeighbors(
	ctx context.Context, queryID string, limit int,
) (map[facet.Facet][]result.Result, error) {
	lists := make(map[facet.Facet][]result.Result, len(facet.All()))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, f := range facet.All() {
		f := f
		g.Go(func() error {
			vec, err := s.vectors.GetFacetVector(gctx, queryID, f)
			if err != nil {
				if errors.Is(err, domain.ErrListingNotFound) {
					return fmt.Errorf("%w: listing %q, facet %q", domain.ErrQueryListingNotFound, queryID, f)
				}
				return fmt.Errorf("get %s vector for %q: %w", f, queryID, err)
			}

			neighbors, err := s.vectors.QueryNeighbors(gctx, f, vec, limit)
			if err != nil {
				return fmt.Errorf("query %s neighbors for %q: %w", f, queryID, err)
			}

			mu.Lock()
			lists[f] = neighbors
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return lists, nil
}

// hydrate resolves the top fused IDs into full records via one batched lookup,
// excluding the query listing itself. IDs with no stored record are dropped;
// the fused order and scores are preserved.
func (s *Service) hydrate(
	ctx context.Context, fused []result.Result, queryID string, limit int,
) ([]Match, error) {
	scored := make([]result.Result, 0, limit)
	ids := make([]string, 0, limit)
	for i := range fused {
		if len(ids) == limit {
			break
		}
		if id := fused[i].ID(); id != queryID {
			scored = append(scored, fused[i])
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	records, err := s.listings.GetListings(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("hydrate %d listings: %w", len(ids), err)
	}

	ordered := make([]Match, 0, len(records))
	for i, id := range ids {
		if rec, ok := records[id]; ok {
			ordered = append(ordered, Match{Listing: rec, Score: scored[i].Score()})
		}
	}
	return ordered, nil
}
