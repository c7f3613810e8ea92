// Package listing implements the record-store collaborator: hydrated listing
// records stored as Redis hashes.
package listing

import (
	"context"
	"fmt"

	"github.com/hearthside/propsim/internal/domain"
	domlisting "github.com/hearthside/propsim/internal/domain/listing"
)

// store is the consumer interface for listing records (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
}

// Repo implements usecase/search.ListingReader and the ingest record writer.
type Repo struct {
	store  store
	prefix string
}

// New creates a listing repository. prefix namespaces all keys ("propsim:").
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// Save creates or replaces a listing record.
func (r *Repo) Save(ctx context.Context, l *domlisting.Listing) error {
	if err := r.store.HSet(ctx, r.key(l.ID()), buildHashFields(l)); err != nil {
		return fmt.Errorf("save listing %s: %w", l.ID(), err)
	}
	return nil
}

// Get returns a listing record by ID.
func (r *Repo) Get(ctx context.Context, id string) (domlisting.Listing, error) {
	m, err := r.store.HGetAll(ctx, r.key(id))
	if err != nil {
		return domlisting.Listing{}, fmt.Errorf("get listing %s: %w", id, err)
	}
	// HGETALL on a missing key yields an empty hash.
	if len(m) == 0 {
		return domlisting.Listing{}, domain.ErrListingNotFound
	}
	return parseHashFields(id, m), nil
}

// GetListings hydrates records for the given IDs in a single pipelined
// round-trip. IDs without a stored record are absent from the result.
func (r *Repo) GetListings(ctx context.Context, ids []string) (map[string]domlisting.Listing, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.key(id)
	}

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("get %d listings: %w", len(ids), err)
	}

	out := make(map[string]domlisting.Listing, len(ids))
	for i, m := range maps {
		if len(m) == 0 {
			continue
		}
		out[ids[i]] = parseHashFields(ids[i], m)
	}
	return out, nil
}

// Delete removes a listing record.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, r.key(id)); err != nil {
		return fmt.Errorf("delete listing %s: %w", id, err)
	}
	return nil
}

func (r *Repo) key(id string) string {
	return r.prefix + "listing:" + id
}
