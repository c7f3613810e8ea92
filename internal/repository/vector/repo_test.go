package vector

import (
	"context"
	"errors"
	"testing"

	"github.com/hearthside/propsim/internal/db"
	"github.com/hearthside/propsim/internal/domain"
	"github.com/hearthside/propsim/internal/domain/facet"
)

// --- GetFacetVector ---

func TestGetFacetVector_HappyPath(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	stored := testVector()
	ms.hgetAllFn = func(_ context.Context, key string) (map[string]string, error) {
		if key != "propsim:location:l-1" {
			t.Errorf("unexpected key: %s", key)
		}
		return map[string]string{vectorField: vectorToBytes(stored)}, nil
	}

	vec, err := repo.GetFacetVector(ctx, "l-1", facet.Location)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != len(stored) {
		t.Fatalf("expected %d dims, got %d", len(stored), len(vec))
	}
	for i := range stored {
		if vec[i] != stored[i] {
			t.Errorf("dim %d: expected %f, got %f", i, stored[i], vec[i])
		}
	}
}

func TestGetFacetVector_Missing(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.hgetAllFn = func(_ context.Context, _ string) (map[string]string, error) {
		return map[string]string{}, nil
	}

	_, err := repo.GetFacetVector(ctx, "absent", facet.Visual)
	if !errors.Is(err, domain.ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound, got %v", err)
	}
}

func TestGetFacetVector_Corrupt(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.hgetAllFn = func(_ context.Context, _ string) (map[string]string, error) {
		return map[string]string{vectorField: "abc"}, nil
	}

	_, err := repo.GetFacetVector(ctx, "l-1", facet.Features)
	if err == nil {
		t.Fatal("expected error for corrupt vector payload")
	}
	if errors.Is(err, domain.ErrListingNotFound) {
		t.Fatal("corrupt payload must not look like a missing listing")
	}
}

func TestGetFacetVector_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.hgetAllFn = func(_ context.Context, _ string) (map[string]string, error) {
		return nil, errors.New("connection refused")
	}

	_, err := repo.GetFacetVector(ctx, "l-1", facet.Location)
	if err == nil {
		t.Fatal("expected error")
	}
}

// --- QueryNeighbors ---

func TestQueryNeighbors_HappyPath(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.searchKNNFn = func(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
		if q.IndexName != "propsim:features:idx" {
			t.Errorf("unexpected index: %s", q.IndexName)
		}
		if q.K != 20 {
			t.Errorf("unexpected K: %d", q.K)
		}
		return &db.SearchResult{
			Total: 2,
			Entries: []db.SearchEntry{
				{Key: "propsim:features:l-1", Score: 0.91},
				{Key: "propsim:features:l-2", Score: 0.58},
			},
		}, nil
	}

	results, err := repo.QueryNeighbors(ctx, facet.Features, testVector(), 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID() != "l-1" {
		t.Errorf("expected ID l-1, got %s", results[0].ID())
	}
	if results[0].Score() != 0.91 {
		t.Errorf("expected score 0.91, got %f", results[0].Score())
	}
	if results[1].ID() != "l-2" {
		t.Errorf("expected ID l-2, got %s", results[1].ID())
	}
}

func TestQueryNeighbors_Empty(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return &db.SearchResult{Total: 0}, nil
	}

	results, err := repo.QueryNeighbors(ctx, facet.Visual, testVector(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected 0 results, got %d", len(results))
	}
}

func TestQueryNeighbors_Error(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return nil, errors.New("index not found")
	}

	_, err := repo.QueryNeighbors(ctx, facet.Location, testVector(), 10)
	if err == nil {
		t.Fatal("expected error on SearchKNN failure")
	}
}

// --- UpsertFacetVector / DeleteFacetVector ---

func TestUpsertFacetVector(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	var gotKey string
	var gotFields map[string]string
	ms.hsetFn = func(_ context.Context, key string, fields map[string]string) error {
		gotKey = key
		gotFields = fields
		return nil
	}

	vec := testVector()
	if err := repo.UpsertFacetVector(ctx, "l-9", facet.Visual, vec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "propsim:visual:l-9" {
		t.Errorf("unexpected key: %s", gotKey)
	}
	if gotFields[vectorField] != vectorToBytes(vec) {
		t.Error("stored blob does not match serialized vector")
	}
}

func TestUpsertFacetVector_Error(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.hsetFn = func(_ context.Context, _ string, _ map[string]string) error {
		return errors.New("write failed")
	}

	if err := repo.UpsertFacetVector(ctx, "l-9", facet.Location, testVector()); err == nil {
		t.Fatal("expected error")
	}
}

func TestDeleteFacetVector(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	var gotKey string
	ms.delFn = func(_ context.Context, key string) error {
		gotKey = key
		return nil
	}

	if err := repo.DeleteFacetVector(ctx, "l-3", facet.Features); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "propsim:features:l-3" {
		t.Errorf("unexpected key: %s", gotKey)
	}
}

// --- EnsureIndexes ---

func TestEnsureIndexes_CreatesMissing(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.indexExistsFn = func(_ context.Context, _ string) (bool, error) {
		return false, nil
	}

	var created []*db.IndexDefinition
	ms.createIndexFn = func(_ context.Context, def *db.IndexDefinition) error {
		created = append(created, def)
		return nil
	}

	params := IndexParams{HNSWM: 32, HNSWEFConstruct: 400, TextDim: 384, VisualDim: 512}
	if err := repo.EnsureIndexes(ctx, params); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != len(facet.All()) {
		t.Fatalf("expected %d indexes, got %d", len(facet.All()), len(created))
	}

	byName := make(map[string]*db.IndexDefinition, len(created))
	for _, def := range created {
		byName[def.Name] = def
	}
	loc, ok := byName["propsim:location:idx"]
	if !ok {
		t.Fatal("location index not created")
	}
	if loc.Fields[0].VectorDim != 384 {
		t.Errorf("expected text dim 384, got %d", loc.Fields[0].VectorDim)
	}
	vis, ok := byName["propsim:visual:idx"]
	if !ok {
		t.Fatal("visual index not created")
	}
	if vis.Fields[0].VectorDim != 512 {
		t.Errorf("expected visual dim 512, got %d", vis.Fields[0].VectorDim)
	}
}

func TestEnsureIndexes_SkipsExisting(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.indexExistsFn = func(_ context.Context, _ string) (bool, error) {
		return true, nil
	}
	ms.createIndexFn = func(_ context.Context, _ *db.IndexDefinition) error {
		t.Error("CreateIndex must not be called when the index exists")
		return nil
	}

	if err := repo.EnsureIndexes(ctx, IndexParams{TextDim: 384, VisualDim: 512}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureIndexes_ToleratesCreateRace(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.indexExistsFn = func(_ context.Context, _ string) (bool, error) {
		return false, nil
	}
	// Another instance created the index between the probe and FT.CREATE.
	ms.createIndexFn = func(_ context.Context, _ *db.IndexDefinition) error {
		return db.ErrIndexExists
	}

	if err := repo.EnsureIndexes(ctx, IndexParams{TextDim: 384, VisualDim: 512}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureIndexes_ProbeError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.indexExistsFn = func(_ context.Context, _ string) (bool, error) {
		return false, errors.New("connection refused")
	}

	if err := repo.EnsureIndexes(ctx, IndexParams{TextDim: 384, VisualDim: 512}); err == nil {
		t.Fatal("expected error")
	}
}

// --- vector codec ---

func TestVectorCodec_RoundTrip(t *testing.T) {
	v := []float32{1.0, -2.5, 0.25}
	back := bytesToVector(vectorToBytes(v))
	if len(back) != len(v) {
		t.Fatalf("expected %d floats, got %d", len(v), len(back))
	}
	for i := range v {
		if back[i] != v[i] {
			t.Errorf("round trip mismatch at %d: %f != %f", i, back[i], v[i])
		}
	}
}

func TestBytesToVector_Malformed(t *testing.T) {
	if bytesToVector("") != nil {
		t.Error("expected nil for empty input")
	}
	if bytesToVector("abc") != nil {
		t.Error("expected nil for truncated input")
	}
}
