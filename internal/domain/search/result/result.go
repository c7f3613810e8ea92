package result

// Result is a single ranked hit from one facet index or from fusion.
// Rank is positional in the surrounding slice, not derived from the score:
// facet scores use unrelated similarity scales and are never compared directly.
type Result struct {
	id    string
	score float64
}

// New creates a ranked hit.
func New(id string, score float64) Result {
	return Result{id: id, score: score}
}

// ID returns the listing identifier.
func (r *Result) ID() string { return r.id }

// Score returns the similarity (facet) or fused (RRF) score.
func (r *Result) Score() float64 { return r.score }
