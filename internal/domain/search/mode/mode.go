package mode

// Mode names a built-in facet weight profile.
type Mode string

// Search mode constants.
const (
	// Balanced weighs location and feature text equally with a smaller visual share.
	Balanced Mode = "balanced"
	// VisualFocus favors photo similarity.
	VisualFocus Mode = "visual_focus"
	// FeaturesFocus favors amenity and feature text similarity.
	FeaturesFocus Mode = "features_focus"
	// LocationFocus favors location text similarity.
	LocationFocus Mode = "location_focus"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Balanced || m == VisualFocus || m == FeaturesFocus || m == LocationFocus
}
