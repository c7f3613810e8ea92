package search

import (
	"fmt"
	"sort"

	"github.com/hearthside/propsim/internal/domain"
	"github.com/hearthside/propsim/internal/domain/facet"
	"github.com/hearthside/propsim/internal/domain/search/profile"
	"github.com/hearthside/propsim/internal/domain/search/result"
)

// DefaultRRFK is the Reciprocal Rank Fusion constant (standard value from Cormack et al. 2009).
// It dampens the influence of low-rank entries.
const DefaultRRFK = 60

// fuseWeightedRRF merges per-facet ranked lists via weighted Reciprocal Rank Fusion.
// score(d) = sum over facets f of w_f * 1/(k + rank_f(d) + 1), rank 0-based.
//
// Ranks, not raw scores, drive the fusion: the facets use unrelated similarity
// scales (text vs image embedding cosine), so comparing scores across facets
// would be meaningless. A listing absent from a facet's list contributes
// nothing for that facet. Output order is deterministic: facets are processed
// in canonical order and ties keep first-appearance order.
func fuseWeightedRRF(
	lists map[facet.Facet][]result.Result,
	weights profile.Profile,
	k int,
) ([]result.Result, error) {
	if k <= 0 {
		k = DefaultRRFK
	}

	scores := make(map[string]float64)
	var order []string // IDs in first-appearance order, ties stay reproducible

	for _, f := range facet.All() {
		ranked, ok := lists[f]
		if !ok {
			continue
		}
		w := weights.Weight(f)
		if w < 0 {
			return nil, fmt.Errorf("%w: facet %q", domain.ErrInvalidWeight, f)
		}
		if w == 0 {
			continue
		}
		for rank, r := range ranked {
			id := r.ID()
			if _, seen := scores[id]; !seen {
				order = append(order, id)
			}
			scores[id] += w * (1.0 / float64(k+rank+1))
		}
	}

	fused := make([]result.Result, 0, len(order))
	for _, id := range order {
		fused = append(fused, result.New(id, scores[id]))
	}

	sort.SliceStable(fused, func(i, j int) bool {
		return fused[i].Score() > fused[j].Score()
	})

	return fused, nil
}
