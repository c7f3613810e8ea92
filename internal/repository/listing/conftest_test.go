package listing

import (
	"context"
	"testing"

	domlisting "github.com/hearthside/propsim/internal/domain/listing"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn        func(ctx context.Context, key string, fields map[string]string) error
	hgetAllFn     func(ctx context.Context, key string) (map[string]string, error)
	hgetAllMultiF func(ctx context.Context, keys []string) ([]map[string]string, error)
	delFn         func(ctx context.Context, key string) error
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiF != nil {
		return m.hgetAllMultiF(ctx, keys)
	}
	return nil, nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, "propsim:")
	return repo, ms
}

func testListing(t *testing.T, id string) *domlisting.Listing {
	t.Helper()
	beds := 3
	baths := 2.5
	l, err := domlisting.New(id, domlisting.Fields{
		LocationDescription: "Corner lot near the riverfront park",
		Neighborhood:        "Riverside",
		City:                "Springfield",
		PropertyType:        "Single Family",
		Price:               "2000",
		Bedrooms:            &beds,
		Bathrooms:           &baths,
		Amenities:           []string{"Pool", "Garage"},
		PhotoURLs:           []string{"https://img.example/1.jpg"},
	})
	if err != nil {
		t.Fatalf("New listing: %v", err)
	}
	return &l
}
