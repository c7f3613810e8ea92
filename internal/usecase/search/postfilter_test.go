package search

import (
	"testing"

	"go.uber.org/zap"

	"github.com/hearthside/propsim/internal/domain/listing"
	"github.com/hearthside/propsim/internal/domain/search/filter"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func makeMatch(id string, f listing.Fields) Match {
	return Match{Listing: listing.Reconstruct(id, f), Score: 1}
}

func mustSpec(t *testing.T, b filter.Bounds) filter.Spec {
	t.Helper()
	spec, err := filter.New(b)
	if err != nil {
		t.Fatalf("filter.New: %v", err)
	}
	return spec
}

func idsOf(matches []Match) []string {
	ids := make([]string, len(matches))
	for i := range matches {
		ids[i] = matches[i].Listing.ID()
	}
	return ids
}

func TestApplyFilters_EmptySpecIsIdentity(t *testing.T) {
	records := []Match{
		makeMatch("a", listing.Fields{LocationDescription: "x"}),
		makeMatch("b", listing.Fields{LocationDescription: "y"}), // no price, still kept
	}

	out := applyFilters(records, filter.Spec{}, zap.NewNop())
	if len(out) != 2 {
		t.Fatalf("expected 2 results, got %d", len(out))
	}
	for i := range out {
		if out[i].Listing.ID() != records[i].Listing.ID() {
			t.Errorf("order changed at %d: %s", i, out[i].Listing.ID())
		}
	}
}

func TestApplyFilters_BedroomRange(t *testing.T) {
	base := listing.Fields{
		LocationDescription: "x",
		Price:               "1000",
		Bathrooms:           floatPtr(1),
	}

	records := make([]Match, 0, 5)
	for i, n := range []int{1, 2, 3, 4} {
		f := base
		f.Bedrooms = intPtr(n)
		records = append(records, makeMatch(string(rune('a'+i)), f))
	}
	// Record without bedroom info.
	records = append(records, makeMatch("e", base))

	spec := mustSpec(t, filter.Bounds{
		MinBedrooms: intPtr(2),
		MaxBedrooms: intPtr(3),
	})

	out := applyFilters(records, spec, zap.NewNop())
	ids := idsOf(out)
	if len(ids) != 2 || ids[0] != "b" || ids[1] != "c" {
		t.Fatalf("expected [b c], got %v", ids)
	}
}

func TestApplyFilters_PresenceRequiredUnderFiltering(t *testing.T) {
	// Any non-empty spec excludes records missing price, bedrooms or bathrooms.
	records := []Match{
		makeMatch("no-price", listing.Fields{
			LocationDescription: "x", Bedrooms: intPtr(2), Bathrooms: floatPtr(1),
		}),
		makeMatch("no-bedrooms", listing.Fields{
			LocationDescription: "x", Price: "1000", Bathrooms: floatPtr(1),
		}),
		makeMatch("no-bathrooms", listing.Fields{
			LocationDescription: "x", Price: "1000", Bedrooms: intPtr(2),
		}),
		makeMatch("complete", listing.Fields{
			LocationDescription: "x", Price: "1000",
			Bedrooms: intPtr(2), Bathrooms: floatPtr(1),
		}),
	}

	spec := mustSpec(t, filter.Bounds{PropertyType: ""})
	if !spec.IsEmpty() {
		t.Fatal("bounds with only empty fields should build an empty spec")
	}

	spec = mustSpec(t, filter.Bounds{MinPrice: floatPtr(1)})
	out := applyFilters(records, spec, zap.NewNop())
	ids := idsOf(out)
	if len(ids) != 1 || ids[0] != "complete" {
		t.Fatalf("expected [complete], got %v", ids)
	}
}

func TestApplyFilters_MalformedPriceExcludedNotFatal(t *testing.T) {
	records := []Match{
		makeMatch("bad", listing.Fields{
			LocationDescription: "x", Price: "call for pricing",
			Bedrooms: intPtr(2), Bathrooms: floatPtr(1),
		}),
		makeMatch("good", listing.Fields{
			LocationDescription: "x", Price: "1500",
			Bedrooms: intPtr(2), Bathrooms: floatPtr(1),
		}),
	}

	spec := mustSpec(t, filter.Bounds{MinPrice: floatPtr(1000)})
	out := applyFilters(records, spec, zap.NewNop())
	ids := idsOf(out)
	if len(ids) != 1 || ids[0] != "good" {
		t.Fatalf("expected [good], got %v", ids)
	}
}

func TestApplyFilters_PriceRangeOverlap(t *testing.T) {
	// A listing priced "1800-2400" satisfies any bound its range overlaps.
	records := []Match{
		makeMatch("range", listing.Fields{
			LocationDescription: "x", Price: "1800-2400",
			Bedrooms: intPtr(2), Bathrooms: floatPtr(1),
		}),
	}

	inside := mustSpec(t, filter.Bounds{MinPrice: floatPtr(2000), MaxPrice: floatPtr(3000)})
	if out := applyFilters(records, inside, zap.NewNop()); len(out) != 1 {
		t.Errorf("overlapping bounds should keep the listing")
	}

	below := mustSpec(t, filter.Bounds{MaxPrice: floatPtr(1500)})
	if out := applyFilters(records, below, zap.NewNop()); len(out) != 0 {
		t.Errorf("bounds entirely below the range should exclude the listing")
	}

	above := mustSpec(t, filter.Bounds{MinPrice: floatPtr(2500)})
	if out := applyFilters(records, above, zap.NewNop()); len(out) != 0 {
		t.Errorf("bounds entirely above the range should exclude the listing")
	}
}

func TestApplyFilters_PropertyTypeExactMatch(t *testing.T) {
	records := []Match{
		makeMatch("condo", listing.Fields{
			LocationDescription: "x", Price: "1000", PropertyType: "condo",
			Bedrooms: intPtr(1), Bathrooms: floatPtr(1),
		}),
		makeMatch("house", listing.Fields{
			LocationDescription: "x", Price: "1000", PropertyType: "house",
			Bedrooms: intPtr(1), Bathrooms: floatPtr(1),
		}),
	}

	spec := mustSpec(t, filter.Bounds{PropertyType: "condo"})
	out := applyFilters(records, spec, zap.NewNop())
	ids := idsOf(out)
	if len(ids) != 1 || ids[0] != "condo" {
		t.Fatalf("expected [condo], got %v", ids)
	}
}

func TestApplyFilters_AllAmenitiesRequired(t *testing.T) {
	records := []Match{
		makeMatch("both", listing.Fields{
			LocationDescription: "x", Price: "1000",
			Bedrooms: intPtr(1), Bathrooms: floatPtr(1),
			Amenities: []string{"pool", "gym", "parking"},
		}),
		makeMatch("one", listing.Fields{
			LocationDescription: "x", Price: "1000",
			Bedrooms: intPtr(1), Bathrooms: floatPtr(1),
			Amenities: []string{"pool"},
		}),
	}

	spec := mustSpec(t, filter.Bounds{MustHaveAmenities: []string{"pool", "gym"}})
	out := applyFilters(records, spec, zap.NewNop())
	ids := idsOf(out)
	if len(ids) != 1 || ids[0] != "both" {
		t.Fatalf("expected [both], got %v", ids)
	}
}

func TestApplyFilters_IdempotentAndOrderPreserving(t *testing.T) {
	records := make([]Match, 0, 6)
	for i := 0; i < 6; i++ {
		records = append(records, makeMatch(string(rune('a'+i)), listing.Fields{
			LocationDescription: "x", Price: "1000",
			Bedrooms: intPtr(i), Bathrooms: floatPtr(1),
		}))
	}

	spec := mustSpec(t, filter.Bounds{MinBedrooms: intPtr(2)})

	once := applyFilters(records, spec, zap.NewNop())
	twice := applyFilters(once, spec, zap.NewNop())

	if len(once) != len(twice) {
		t.Fatalf("second pass changed length: %d != %d", len(once), len(twice))
	}
	prev := -1
	for i := range once {
		if once[i].Listing.ID() != twice[i].Listing.ID() {
			t.Errorf("second pass changed order at %d", i)
		}
		n := *once[i].Listing.Bedrooms()
		if n <= prev {
			t.Errorf("relative input order lost: %d after %d", n, prev)
		}
		prev = n
	}
}

func TestApplyFilters_DoesNotMutateInput(t *testing.T) {
	records := []Match{
		makeMatch("a", listing.Fields{
			LocationDescription: "x", Price: "1000",
			Bedrooms: intPtr(1), Bathrooms: floatPtr(1),
		}),
		makeMatch("b", listing.Fields{LocationDescription: "y"}),
	}

	spec := mustSpec(t, filter.Bounds{MinBedrooms: intPtr(1)})
	_ = applyFilters(records, spec, zap.NewNop())

	if records[0].Listing.ID() != "a" || records[1].Listing.ID() != "b" {
		t.Error("input slice was mutated")
	}
	if len(records) != 2 {
		t.Errorf("input length changed: %d", len(records))
	}
}
