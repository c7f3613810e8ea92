// Package vector implements the per-facet vector index collaborator on the
// db store: one FT vector index per facet, vectors kept in hash fields.
package vector

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hearthside/propsim/internal/db"
	"github.com/hearthside/propsim/internal/domain"
	"github.com/hearthside/propsim/internal/domain/facet"
	"github.com/hearthside/propsim/internal/domain/search/result"
)

// store is the consumer interface for facet vector operations (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// IndexParams holds HNSW build parameters for the facet indexes.
type IndexParams struct {
	HNSWM           int
	HNSWEFConstruct int
	TextDim         int
	VisualDim       int
}

// Repo implements usecase/search.VectorStore and the ingest vector writer.
type Repo struct {
	store  store
	prefix string
}

// New creates a facet vector repository. prefix namespaces all keys ("propsim:").
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// GetFacetVector returns the stored vector for a listing in one facet.
func (r *Repo) GetFacetVector(ctx context.Context, id string, f facet.Facet) ([]float32, error) {
	key := r.facetKey(f, id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get %s vector %s: %w", f, id, err)
	}
	// HGETALL on a missing key yields an empty hash.
	raw, ok := m[vectorField]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	vec := bytesToVector(raw)
	if vec == nil {
		return nil, fmt.Errorf("corrupt %s vector for listing %s", f, id)
	}
	return vec, nil
}

// QueryNeighbors returns up to limit nearest neighbors in one facet index,
// best match first.
func (r *Repo) QueryNeighbors(
	ctx context.Context, f facet.Facet, vec []float32, limit int,
) ([]result.Result, error) {
	q := &db.KNNQuery{
		IndexName:    r.indexName(f),
		Vector:       vec,
		K:            limit,
		ReturnFields: []string{"__vector_score"},
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search knn %s: %w", f, err)
	}
	if sr == nil || sr.Total == 0 {
		return nil, nil
	}

	keyPrefix := r.facetKey(f, "")
	results := make([]result.Result, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		id := strings.TrimPrefix(entry.Key, keyPrefix)
		results = append(results, result.New(id, entry.Score))
	}
	return results, nil
}

// UpsertFacetVector stores (or replaces) a listing's vector in one facet.
func (r *Repo) UpsertFacetVector(ctx context.Context, id string, f facet.Facet, vec []float32) error {
	key := r.facetKey(f, id)
	fields := map[string]string{vectorField: vectorToBytes(vec)}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("upsert %s vector %s: %w", f, id, err)
	}
	return nil
}

// DeleteFacetVector removes a listing's vector from one facet.
func (r *Repo) DeleteFacetVector(ctx context.Context, id string, f facet.Facet) error {
	if err := r.store.Del(ctx, r.facetKey(f, id)); err != nil {
		return fmt.Errorf("delete %s vector %s: %w", f, id, err)
	}
	return nil
}

// EnsureIndexes creates the per-facet FT indexes that are not present yet.
func (r *Repo) EnsureIndexes(ctx context.Context, p IndexParams) error {
	for _, f := range facet.All() {
		name := r.indexName(f)

		exists, err := r.store.IndexExists(ctx, name)
		if err != nil {
			return fmt.Errorf("probe index %s: %w", name, err)
		}
		if exists {
			continue
		}

		dim := p.TextDim
		if f == facet.Visual {
			dim = p.VisualDim
		}
		def := db.NewVectorIndex(name, r.facetKey(f, ""), vectorField, dim, p.HNSWM, p.HNSWEFConstruct)
		if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
			return fmt.Errorf("create index %s: %w", name, err)
		}
	}
	return nil
}

const vectorField = "__vector"

func (r *Repo) facetKey(f facet.Facet, id string) string {
	return fmt.Sprintf("%s%s:%s", r.prefix, f, id)
}

func (r *Repo) indexName(f facet.Facet) string {
	return fmt.Sprintf("%s%s:idx", r.prefix, f)
}
