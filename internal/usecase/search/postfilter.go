package search

import (
	"go.uber.org/zap"

	"github.com/hearthside/propsim/internal/domain/listing"
	"github.com/hearthside/propsim/internal/domain/search/filter"
)

// applyFilters returns the order-preserving subsequence of records satisfying
// every constraint in spec. Input records are never mutated.
//
// Presence rules follow the source data semantics: once any filtering is
// requested, records without price, bedroom, or bathroom information are
// excluded: an unknown value cannot be proven to satisfy a bound. A record
// whose price cannot be parsed is excluded with a warning, never a fatal
// error; source feeds are heterogeneous and one bad record must not kill the
// whole search.
func applyFilters(records []Match, spec filter.Spec, logger *zap.Logger) []Match {
	if spec.IsEmpty() {
		return records
	}

	kept := make([]Match, 0, len(records))
	for i := range records {
		if matches(&records[i].Listing, spec, logger) {
			kept = append(kept, records[i])
		}
	}
	return kept
}

func matches(rec *listing.Listing, spec filter.Spec, logger *zap.Logger) bool {
	// Price presence & range.
	if !rec.HasPrice() {
		return false
	}
	priceMin, priceMax, err := rec.PriceBounds()
	if err != nil {
		logger.Warn("excluding listing with malformed price",
			zap.String("listing_id", rec.ID()),
			zap.String("price", rec.Price()),
			zap.Error(err),
		)
		return false
	}
	if m := spec.MinPrice(); m != nil && priceMax < *m {
		return false
	}
	if m := spec.MaxPrice(); m != nil && priceMin > *m {
		return false
	}

	// Bedroom presence & range.
	bedrooms := rec.Bedrooms()
	if bedrooms == nil {
		return false
	}
	if m := spec.MinBedrooms(); m != nil && *bedrooms < *m {
		return false
	}
	if m := spec.MaxBedrooms(); m != nil && *bedrooms > *m {
		return false
	}

	// Bathroom presence & range.
	bathrooms := rec.Bathrooms()
	if bathrooms == nil {
		return false
	}
	if m := spec.MinBathrooms(); m != nil && *bathrooms < *m {
		return false
	}
	if m := spec.MaxBathrooms(); m != nil && *bathrooms > *m {
		return false
	}

	// Property type exact match.
	if t := spec.PropertyType(); t != "" && rec.PropertyType() != t {
		return false
	}

	// Required amenities: all must be present.
	for _, a := range spec.MustHaveAmenities() {
		if !rec.HasAmenity(a) {
			return false
		}
	}

	return true
}
