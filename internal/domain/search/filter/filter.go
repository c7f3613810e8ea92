// Package filter holds the structured post-filter specification applied to
// hydrated listing records after rank fusion.
package filter

import "fmt"

// MaxAmenities is the maximum number of required amenities per spec.
const MaxAmenities = 32

// Spec is a validated set of optional listing constraints. A zero Spec matches
// every record.
type Spec struct {
	minPrice     *float64
	maxPrice     *float64
	minBedrooms  *int
	maxBedrooms  *int
	minBathrooms *float64
	maxBathrooms *float64
	propertyType string
	amenities    []string
}

// Bounds carries the optional constraint values for constructing a Spec.
type Bounds struct {
	MinPrice          *float64
	MaxPrice          *float64
	MinBedrooms       *int
	MaxBedrooms       *int
	MinBathrooms      *float64
	MaxBathrooms      *float64
	PropertyType      string
	MustHaveAmenities []string
}

// New validates and creates a Spec. Bounds must be non-negative and each
// min must not exceed its max when both are set.
func New(b Bounds) (Spec, error) {
	if err := checkRange("price", toF(b.MinPrice), toF(b.MaxPrice)); err != nil {
		return Spec{}, err
	}
	if err := checkRange("bedrooms", intToF(b.MinBedrooms), intToF(b.MaxBedrooms)); err != nil {
		return Spec{}, err
	}
	if err := checkRange("bathrooms", toF(b.MinBathrooms), toF(b.MaxBathrooms)); err != nil {
		return Spec{}, err
	}
	if len(b.MustHaveAmenities) > MaxAmenities {
		return Spec{}, fmt.Errorf("too many required amenities (max %d)", MaxAmenities)
	}
	for _, a := range b.MustHaveAmenities {
		if a == "" {
			return Spec{}, fmt.Errorf("required amenity must not be empty")
		}
	}
	amenities := make([]string, len(b.MustHaveAmenities))
	copy(amenities, b.MustHaveAmenities)

	return Spec{
		minPrice:     b.MinPrice,
		maxPrice:     b.MaxPrice,
		minBedrooms:  b.MinBedrooms,
		maxBedrooms:  b.MaxBedrooms,
		minBathrooms: b.MinBathrooms,
		maxBathrooms: b.MaxBathrooms,
		propertyType: b.PropertyType,
		amenities:    amenities,
	}, nil
}

// MinPrice returns the minimum price bound.
func (s Spec) MinPrice() *float64 { return s.minPrice }

// MaxPrice returns the maximum price bound.
func (s Spec) MaxPrice() *float64 { return s.maxPrice }

// MinBedrooms returns the minimum bedroom count bound.
func (s Spec) MinBedrooms() *int { return s.minBedrooms }

// MaxBedrooms returns the maximum bedroom count bound.
func (s Spec) MaxBedrooms() *int { return s.maxBedrooms }

// MinBathrooms returns the minimum bathroom count bound.
func (s Spec) MinBathrooms() *float64 { return s.minBathrooms }

// MaxBathrooms returns the maximum bathroom count bound.
func (s Spec) MaxBathrooms() *float64 { return s.maxBathrooms }

// PropertyType returns the required property type; empty means any.
func (s Spec) PropertyType() string { return s.propertyType }

// MustHaveAmenities returns amenities every surviving record must include.
func (s Spec) MustHaveAmenities() []string { return s.amenities }

// IsEmpty reports whether the spec constrains nothing.
func (s Spec) IsEmpty() bool {
	return s.minPrice == nil && s.maxPrice == nil &&
		s.minBedrooms == nil && s.maxBedrooms == nil &&
		s.minBathrooms == nil && s.maxBathrooms == nil &&
		s.propertyType == "" && len(s.amenities) == 0
}

func checkRange(name string, minVal, maxVal *float64) error {
	if minVal != nil && *minVal < 0 {
		return fmt.Errorf("min_%s must be non-negative", name)
	}
	if maxVal != nil && *maxVal < 0 {
		return fmt.Errorf("max_%s must be non-negative", name)
	}
	if minVal != nil && maxVal != nil && *minVal > *maxVal {
		return fmt.Errorf("min_%s exceeds max_%s", name, name)
	}
	return nil
}

func toF(p *float64) *float64 { return p }

func intToF(p *int) *float64 {
	if p == nil {
		return nil
	}
	f := float64(*p)
	return &f
}
