package listing

import (
	"strings"
	"testing"
)

func validFields() Fields {
	return Fields{LocationDescription: "quiet street near the park"}
}

func TestNew_Valid(t *testing.T) {
	ids := []string{"a", "listing-42", "Unit_7B", strings.Repeat("x", MaxIDLength)}
	for _, id := range ids {
		if _, err := New(id, validFields()); err != nil {
			t.Errorf("New(%q) unexpected error: %v", id, err)
		}
	}
}

func TestNew_InvalidID(t *testing.T) {
	ids := []string{"", "has space", "semi;colon", "tab\tchar", strings.Repeat("x", MaxIDLength+1)}
	for _, id := range ids {
		if _, err := New(id, validFields()); err == nil {
			t.Errorf("New(%q) expected error", id)
		}
	}
}

func TestNew_LocationDescriptionRequired(t *testing.T) {
	if _, err := New("l1", Fields{}); err == nil {
		t.Fatal("expected error for missing location description")
	}
}

func TestNew_PriceValidated(t *testing.T) {
	f := validFields()
	f.Price = "about two grand"
	if _, err := New("l1", f); err == nil {
		t.Fatal("expected error for unparsable price")
	}

	f.Price = "1950"
	if _, err := New("l1", f); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReconstruct_SkipsValidation(t *testing.T) {
	// Storage hydration must tolerate malformed records.
	l := Reconstruct("l1", Fields{Price: "call for pricing"})
	if l.ID() != "l1" {
		t.Errorf("ID = %q", l.ID())
	}
	if _, _, err := l.PriceBounds(); err == nil {
		t.Error("expected PriceBounds error for malformed price")
	}
}

func TestPriceBounds(t *testing.T) {
	tests := []struct {
		price    string
		min, max float64
		wantErr  bool
	}{
		{"1950", 1950, 1950, false},
		{"1800-2400", 1800, 2400, false},
		{" 1800 - 2400 ", 1800, 2400, false},
		{"1950.50", 1950.5, 1950.5, false},
		{"", 0, 0, true},
		{"n/a", 0, 0, true},
		{"1800-abc", 0, 0, true},
		{"2400-1800", 0, 0, true}, // inverted range
	}

	for _, tt := range tests {
		f := validFields()
		f.Price = tt.price
		l := Reconstruct("l1", f)
		minPrice, maxPrice, err := l.PriceBounds()
		if tt.wantErr {
			if err == nil {
				t.Errorf("PriceBounds(%q) expected error", tt.price)
			}
			continue
		}
		if err != nil {
			t.Errorf("PriceBounds(%q) unexpected error: %v", tt.price, err)
			continue
		}
		if minPrice != tt.min || maxPrice != tt.max {
			t.Errorf("PriceBounds(%q) = (%v, %v), want (%v, %v)",
				tt.price, minPrice, maxPrice, tt.min, tt.max)
		}
	}
}

func TestHasPrice(t *testing.T) {
	with := Reconstruct("l1", Fields{Price: "1000"})
	if !with.HasPrice() {
		t.Error("HasPrice() = false with price set")
	}
	without := Reconstruct("l2", Fields{})
	if without.HasPrice() {
		t.Error("HasPrice() = true with no price")
	}
}

func TestHasAmenity(t *testing.T) {
	l := Reconstruct("l1", Fields{Amenities: []string{"pool", "gym"}})
	if !l.HasAmenity("pool") {
		t.Error("expected pool amenity")
	}
	if l.HasAmenity("sauna") {
		t.Error("unexpected sauna amenity")
	}
	if l.HasAmenity("Pool") {
		t.Error("amenity match must be exact")
	}
}

func TestBuild_ClonesSlices(t *testing.T) {
	amenities := []string{"pool"}
	l := Reconstruct("l1", Fields{Amenities: amenities})
	amenities[0] = "mutated"
	if l.Amenities()[0] != "pool" {
		t.Error("listing shares the caller's slice")
	}
}
