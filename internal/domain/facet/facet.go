// Package facet defines the similarity dimensions a listing is indexed under.
package facet

// Facet is one semantic similarity dimension. Each listing carries exactly one
// L2-normalized vector per facet, stored in that facet's own index.
type Facet string

const (
	// Location covers the location description text (neighborhood, city, county).
	Location Facet = "location"
	// Features covers amenity and feature text.
	Features Facet = "features"
	// Visual covers the aggregated photo embedding.
	Visual Facet = "visual"
)

// All returns the facets in canonical order. Iteration over facets must use
// this order so that fusion output is deterministic.
func All() []Facet {
	return []Facet{Location, Features, Visual}
}

// IsValid checks if the facet is one of the supported values.
func (f Facet) IsValid() bool {
	return f == Location || f == Features || f == Visual
}
