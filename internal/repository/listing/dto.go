package listing

import (
	"encoding/json"
	"strconv"

	domlisting "github.com/hearthside/propsim/internal/domain/listing"
)

// Hash field names for stored listing records.
const (
	fieldLocationDescription = "location_description"
	fieldNeighborhood        = "neighborhood"
	fieldCity                = "city"
	fieldMunicipality        = "municipality"
	fieldCounty              = "county"
	fieldPropertyType        = "property_type"
	fieldArchitecturalStyle  = "architectural_style"
	fieldPrice               = "price"
	fieldBedrooms            = "bedrooms"
	fieldBathrooms           = "bathrooms"
	fieldAmenities           = "amenities"
	fieldInteriorFeatures    = "interior_features"
	fieldAppliances          = "appliances"
	fieldExteriorFeatures    = "exterior_features"
	fieldLotFeatures         = "lot_features"
	fieldPhotoURLs           = "photo_urls"
)

// buildHashFields converts a domain Listing into a flat map[string]string for HSET.
// List-valued attributes are JSON-encoded; optional scalars are omitted when unset.
func buildHashFields(l *domlisting.Listing) map[string]string {
	m := map[string]string{
		fieldLocationDescription: l.LocationDescription(),
	}
	setIfNonEmpty(m, fieldNeighborhood, l.Neighborhood())
	setIfNonEmpty(m, fieldCity, l.City())
	setIfNonEmpty(m, fieldMunicipality, l.Municipality())
	setIfNonEmpty(m, fieldCounty, l.County())
	setIfNonEmpty(m, fieldPropertyType, l.PropertyType())
	setIfNonEmpty(m, fieldArchitecturalStyle, l.ArchitecturalStyle())
	setIfNonEmpty(m, fieldPrice, l.Price())
	if b := l.Bedrooms(); b != nil {
		m[fieldBedrooms] = strconv.Itoa(*b)
	}
	if b := l.Bathrooms(); b != nil {
		m[fieldBathrooms] = strconv.FormatFloat(*b, 'f', -1, 64)
	}
	setList(m, fieldAmenities, l.Amenities())
	setList(m, fieldInteriorFeatures, l.InteriorFeatures())
	setList(m, fieldAppliances, l.Appliances())
	setList(m, fieldExteriorFeatures, l.ExteriorFeatures())
	setList(m, fieldLotFeatures, l.LotFeatures())
	setList(m, fieldPhotoURLs, l.PhotoURLs())
	return m
}

// parseHashFields converts a flat hash map back into a domain Listing.
// Malformed optional fields degrade to absent; the post-filter stage owns the
// exclusion of records it cannot evaluate.
func parseHashFields(id string, m map[string]string) domlisting.Listing {
	f := domlisting.Fields{
		LocationDescription: m[fieldLocationDescription],
		Neighborhood:        m[fieldNeighborhood],
		City:                m[fieldCity],
		Municipality:        m[fieldMunicipality],
		County:              m[fieldCounty],
		PropertyType:        m[fieldPropertyType],
		ArchitecturalStyle:  m[fieldArchitecturalStyle],
		Price:               m[fieldPrice],
		Amenities:           parseList(m[fieldAmenities]),
		InteriorFeatures:    parseList(m[fieldInteriorFeatures]),
		Appliances:          parseList(m[fieldAppliances]),
		ExteriorFeatures:    parseList(m[fieldExteriorFeatures]),
		LotFeatures:         parseList(m[fieldLotFeatures]),
		PhotoURLs:           parseList(m[fieldPhotoURLs]),
	}
	if raw, ok := m[fieldBedrooms]; ok {
		if n, err := strconv.Atoi(raw); err == nil {
			f.Bedrooms = &n
		}
	}
	if raw, ok := m[fieldBathrooms]; ok {
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			f.Bathrooms = &n
		}
	}
	return domlisting.Reconstruct(id, f)
}

func setIfNonEmpty(m map[string]string, key, val string) {
	if val != "" {
		m[key] = val
	}
}

func setList(m map[string]string, key string, vals []string) {
	if len(vals) == 0 {
		return
	}
	data, err := json.Marshal(vals)
	if err != nil {
		return
	}
	m[key] = string(data)
}

func parseList(raw string) []string {
	if raw == "" {
		return nil
	}
	var vals []string
	if err := json.Unmarshal([]byte(raw), &vals); err != nil {
		return nil
	}
	return vals
}
