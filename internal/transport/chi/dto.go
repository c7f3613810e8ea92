package chi

import (
	"fmt"

	"github.com/hearthside/propsim/internal/domain/listing"
	"github.com/hearthside/propsim/internal/domain/search/filter"
	searchuc "github.com/hearthside/propsim/internal/usecase/search"
)

// upsertListingRequest is the PUT /listings/{id} body. The visual vector is
// precomputed upstream from the listing photos and submitted alongside the
// structured fields.
type upsertListingRequest struct {
	LocationDescription string    `json:"location_description"`
	Neighborhood        string    `json:"neighborhood,omitempty"`
	City                string    `json:"city,omitempty"`
	Municipality        string    `json:"municipality,omitempty"`
	County              string    `json:"county,omitempty"`
	PropertyType        string    `json:"property_type,omitempty"`
	ArchitecturalStyle  string    `json:"architectural_style,omitempty"`
	Price               string    `json:"price,omitempty"`
	Bedrooms            *int      `json:"bedrooms,omitempty"`
	Bathrooms           *float64  `json:"bathrooms,omitempty"`
	Amenities           []string  `json:"amenities,omitempty"`
	InteriorFeatures    []string  `json:"interior_features,omitempty"`
	Appliances          []string  `json:"appliances,omitempty"`
	ExteriorFeatures    []string  `json:"exterior_features,omitempty"`
	LotFeatures         []string  `json:"lot_features,omitempty"`
	PhotoURLs           []string  `json:"photo_urls,omitempty"`
	VisualVector        []float32 `json:"visual_vector"`
}

// listingResponse mirrors the stored record.
type listingResponse struct {
	ID                  string   `json:"id"`
	LocationDescription string   `json:"location_description"`
	Neighborhood        string   `json:"neighborhood,omitempty"`
	City                string   `json:"city,omitempty"`
	Municipality        string   `json:"municipality,omitempty"`
	County              string   `json:"county,omitempty"`
	PropertyType        string   `json:"property_type,omitempty"`
	ArchitecturalStyle  string   `json:"architectural_style,omitempty"`
	Price               string   `json:"price,omitempty"`
	Bedrooms            *int     `json:"bedrooms,omitempty"`
	Bathrooms           *float64 `json:"bathrooms,omitempty"`
	Amenities           []string `json:"amenities,omitempty"`
	InteriorFeatures    []string `json:"interior_features,omitempty"`
	Appliances          []string `json:"appliances,omitempty"`
	ExteriorFeatures    []string `json:"exterior_features,omitempty"`
	LotFeatures         []string `json:"lot_features,omitempty"`
	PhotoURLs           []string `json:"photo_urls,omitempty"`
}

// searchRequest is the POST /listings/{id}/similar body. All fields are
// optional; defaults are mode "balanced", topK 10 and no filters.
type searchRequest struct {
	Mode    string         `json:"mode,omitempty"`
	TopK    int            `json:"top_k,omitempty"`
	Filters *filterRequest `json:"filters,omitempty"`
}

type filterRequest struct {
	MinPrice          *float64 `json:"min_price,omitempty"`
	MaxPrice          *float64 `json:"max_price,omitempty"`
	MinBedrooms       *int     `json:"min_bedrooms,omitempty"`
	MaxBedrooms       *int     `json:"max_bedrooms,omitempty"`
	MinBathrooms      *float64 `json:"min_bathrooms,omitempty"`
	MaxBathrooms      *float64 `json:"max_bathrooms,omitempty"`
	PropertyType      string   `json:"property_type,omitempty"`
	MustHaveAmenities []string `json:"must_have_amenities,omitempty"`
}

type searchResultItem struct {
	Score   float64         `json:"score"`
	Listing listingResponse `json:"listing"`
}

type searchResponse struct {
	Items []searchResultItem `json:"items"`
	Total int                `json:"total"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func listingFieldsFromUpsert(req upsertListingRequest) listing.Fields {
	return listing.Fields{
		LocationDescription: req.LocationDescription,
		Neighborhood:        req.Neighborhood,
		City:                req.City,
		Municipality:        req.Municipality,
		County:              req.County,
		PropertyType:        req.PropertyType,
		ArchitecturalStyle:  req.ArchitecturalStyle,
		Price:               req.Price,
		Bedrooms:            req.Bedrooms,
		Bathrooms:           req.Bathrooms,
		Amenities:           req.Amenities,
		InteriorFeatures:    req.InteriorFeatures,
		Appliances:          req.Appliances,
		ExteriorFeatures:    req.ExteriorFeatures,
		LotFeatures:         req.LotFeatures,
		PhotoURLs:           req.PhotoURLs,
	}
}

func listingToResponse(l *listing.Listing) listingResponse {
	return listingResponse{
		ID:                  l.ID(),
		LocationDescription: l.LocationDescription(),
		Neighborhood:        l.Neighborhood(),
		City:                l.City(),
		Municipality:        l.Municipality(),
		County:              l.County(),
		PropertyType:        l.PropertyType(),
		ArchitecturalStyle:  l.ArchitecturalStyle(),
		Price:               l.Price(),
		Bedrooms:            l.Bedrooms(),
		Bathrooms:           l.Bathrooms(),
		Amenities:           l.Amenities(),
		InteriorFeatures:    l.InteriorFeatures(),
		Appliances:          l.Appliances(),
		ExteriorFeatures:    l.ExteriorFeatures(),
		LotFeatures:         l.LotFeatures(),
		PhotoURLs:           l.PhotoURLs(),
	}
}

func filterSpecFromRequest(f *filterRequest) (filter.Spec, error) {
	if f == nil {
		return filter.Spec{}, nil
	}
	spec, err := filter.New(filter.Bounds{
		MinPrice:          f.MinPrice,
		MaxPrice:          f.MaxPrice,
		MinBedrooms:       f.MinBedrooms,
		MaxBedrooms:       f.MaxBedrooms,
		MinBathrooms:      f.MinBathrooms,
		MaxBathrooms:      f.MaxBathrooms,
		PropertyType:      f.PropertyType,
		MustHaveAmenities: f.MustHaveAmenities,
	})
	if err != nil {
		return filter.Spec{}, fmt.Errorf("parse filters: %w", err)
	}
	return spec, nil
}

func matchesToResponse(matches []searchuc.Match) searchResponse {
	items := make([]searchResultItem, len(matches))
	for i := range matches {
		items[i] = searchResultItem{
			Score:   matches[i].Score,
			Listing: listingToResponse(&matches[i].Listing),
		}
	}
	return searchResponse{Items: items, Total: len(items)}
}
