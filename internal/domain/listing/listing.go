// Package listing holds the real-estate listing aggregate.
package listing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// MaxIDLength bounds listing identifiers.
const MaxIDLength = 256

// Listing is the hydrated listing record (immutable value object).
//
// The price is kept as the raw source string, either a single value ("1950")
// or a low-high range ("1800-2400"). Source feeds are heterogeneous, so the
// value is parsed lazily via PriceBounds and malformed prices surface at
// filter time instead of poisoning ingestion.
type Listing struct {
	id                  string
	locationDescription string
	neighborhood        string
	city                string
	municipality        string
	county              string
	propertyType        string
	architecturalStyle  string
	price               string
	bedrooms            *int
	bathrooms           *float64
	amenities           []string
	interiorFeatures    []string
	appliances          []string
	exteriorFeatures    []string
	lotFeatures         []string
	photoURLs           []string
}

// Fields carries the named attributes for constructing a Listing.
type Fields struct {
	LocationDescription string
	Neighborhood        string
	City                string
	Municipality        string
	County              string
	PropertyType        string
	ArchitecturalStyle  string
	Price               string
	Bedrooms            *int
	Bathrooms           *float64
	Amenities           []string
	InteriorFeatures    []string
	Appliances          []string
	ExteriorFeatures    []string
	LotFeatures         []string
	PhotoURLs           []string
}

// New validates and creates a Listing.
// ID: ^[a-zA-Z0-9_-]+$, 1-256 chars. A location description is required since
// the location facet text is built from it.
func New(id string, f Fields) (Listing, error) {
	if id == "" {
		return Listing{}, fmt.Errorf("listing ID is required")
	}
	if len(id) > MaxIDLength {
		return Listing{}, fmt.Errorf("listing ID too long (max %d)", MaxIDLength)
	}
	if !idRegex.MatchString(id) {
		return Listing{}, fmt.Errorf("listing ID must be alphanumeric with underscores and hyphens")
	}
	if f.LocationDescription == "" {
		return Listing{}, fmt.Errorf("location description is required")
	}
	if f.Price != "" {
		if _, _, err := parsePrice(f.Price); err != nil {
			return Listing{}, fmt.Errorf("price: %w", err)
		}
	}
	return build(id, f), nil
}

// Reconstruct creates a Listing without validation (storage hydration).
// Partial or malformed records from storage are tolerated here and dealt with
// by the post-filter stage.
func Reconstruct(id string, f Fields) Listing {
	return build(id, f)
}

func build(id string, f Fields) Listing {
	return Listing{
		id:                  id,
		locationDescription: f.LocationDescription,
		neighborhood:        f.Neighborhood,
		city:                f.City,
		municipality:        f.Municipality,
		county:              f.County,
		propertyType:        f.PropertyType,
		architecturalStyle:  f.ArchitecturalStyle,
		price:               f.Price,
		bedrooms:            f.Bedrooms,
		bathrooms:           f.Bathrooms,
		amenities:           cloneStrings(f.Amenities),
		interiorFeatures:    cloneStrings(f.InteriorFeatures),
		appliances:          cloneStrings(f.Appliances),
		exteriorFeatures:    cloneStrings(f.ExteriorFeatures),
		lotFeatures:         cloneStrings(f.LotFeatures),
		photoURLs:           cloneStrings(f.PhotoURLs),
	}
}

// ID returns the listing identifier.
func (l *Listing) ID() string { return l.id }

// LocationDescription returns the free-text location description.
func (l *Listing) LocationDescription() string { return l.locationDescription }

// Neighborhood returns the neighborhood name.
func (l *Listing) Neighborhood() string { return l.neighborhood }

// City returns the city name.
func (l *Listing) City() string { return l.city }

// Municipality returns the municipality name.
func (l *Listing) Municipality() string { return l.municipality }

// County returns the county name.
func (l *Listing) County() string { return l.county }

// PropertyType returns the property type ("apartment", "house", ...).
func (l *Listing) PropertyType() string { return l.propertyType }

// ArchitecturalStyle returns the architectural style.
func (l *Listing) ArchitecturalStyle() string { return l.architecturalStyle }

// Price returns the raw price string ("1950" or "1800-2400"). Empty when the
// source record carried no price.
func (l *Listing) Price() string { return l.price }

// Bedrooms returns the bedroom count, nil when unknown.
func (l *Listing) Bedrooms() *int { return l.bedrooms }

// Bathrooms returns the bathroom count (fractional baths allowed), nil when unknown.
func (l *Listing) Bathrooms() *float64 { return l.bathrooms }

// Amenities returns the amenity list.
func (l *Listing) Amenities() []string { return l.amenities }

// InteriorFeatures returns the interior feature list.
func (l *Listing) InteriorFeatures() []string { return l.interiorFeatures }

// Appliances returns the appliance list.
func (l *Listing) Appliances() []string { return l.appliances }

// ExteriorFeatures returns the exterior feature list.
func (l *Listing) ExteriorFeatures() []string { return l.exteriorFeatures }

// LotFeatures returns the lot feature list.
func (l *Listing) LotFeatures() []string { return l.lotFeatures }

// PhotoURLs returns the photo URLs.
func (l *Listing) PhotoURLs() []string { return l.photoURLs }

// HasPrice reports whether the record carries any price information.
func (l *Listing) HasPrice() bool { return l.price != "" }

// PriceBounds parses the price string into effective [min, max] bounds.
// A single value yields min == max. Returns an error for malformed input.
func (l *Listing) PriceBounds() (float64, float64, error) {
	return parsePrice(l.price)
}

// HasAmenity reports whether the listing includes the given amenity (exact match).
func (l *Listing) HasAmenity(name string) bool {
	for _, a := range l.amenities {
		if a == name {
			return true
		}
	}
	return false
}

func parsePrice(s string) (float64, float64, error) {
	if s == "" {
		return 0, 0, fmt.Errorf("price is empty")
	}
	low, high, isRange := strings.Cut(s, "-")
	minPrice, err := strconv.ParseFloat(strings.TrimSpace(low), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("unparsable price %q", s)
	}
	if !isRange {
		return minPrice, minPrice, nil
	}
	maxPrice, err := strconv.ParseFloat(strings.TrimSpace(high), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("unparsable price range %q", s)
	}
	if maxPrice < minPrice {
		return 0, 0, fmt.Errorf("inverted price range %q", s)
	}
	return minPrice, maxPrice, nil
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	c := make([]string, len(s))
	copy(c, s)
	return c
}
