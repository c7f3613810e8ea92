// Package profile holds facet weight profiles for rank fusion.
package profile

import (
	"fmt"

	"github.com/hearthside/propsim/internal/domain"
	"github.com/hearthside/propsim/internal/domain/facet"
	"github.com/hearthside/propsim/internal/domain/search/mode"
)

// Profile is an immutable facet→weight mapping. Weights are not required to
// sum to 1: RRF contributions are facet-local, so only relative magnitude
// matters.
type Profile struct {
	weights map[facet.Facet]float64
}

// New validates and creates a Profile. Weights must be non-negative and keyed
// by known facets. A facet absent from the map carries weight zero.
func New(weights map[facet.Facet]float64) (Profile, error) {
	m := make(map[facet.Facet]float64, len(weights))
	for f, w := range weights {
		if !f.IsValid() {
			return Profile{}, fmt.Errorf("%w: unknown facet %q", domain.ErrInvalidWeight, f)
		}
		if w < 0 {
			return Profile{}, fmt.Errorf("%w: facet %q has weight %v", domain.ErrInvalidWeight, f, w)
		}
		m[f] = w
	}
	return Profile{weights: m}, nil
}

// MustNew calls New and panics on error. For the static built-in table only.
func MustNew(weights map[facet.Facet]float64) Profile {
	p, err := New(weights)
	if err != nil {
		panic(err)
	}
	return p
}

// Weight returns the weight for a facet; zero when the facet is absent.
func (p Profile) Weight(f facet.Facet) float64 { return p.weights[f] }

// builtins mirrors the four canonical search modes. The table is immutable
// after package init and safe for concurrent reads.
var builtins = map[mode.Mode]Profile{
	mode.Balanced: MustNew(map[facet.Facet]float64{
		facet.Location: 0.4,
		facet.Features: 0.4,
		facet.Visual:   0.2,
	}),
	mode.VisualFocus: MustNew(map[facet.Facet]float64{
		facet.Location: 0.1,
		facet.Features: 0.1,
		facet.Visual:   0.8,
	}),
	mode.FeaturesFocus: MustNew(map[facet.Facet]float64{
		facet.Location: 0.1,
		facet.Features: 0.8,
		facet.Visual:   0.1,
	}),
	mode.LocationFocus: MustNew(map[facet.Facet]float64{
		facet.Location: 0.8,
		facet.Features: 0.1,
		facet.Visual:   0.1,
	}),
}

// ByMode resolves a built-in profile by search mode.
func ByMode(m mode.Mode) (Profile, error) {
	p, ok := builtins[m]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", domain.ErrUnknownSearchMode, m)
	}
	return p, nil
}
