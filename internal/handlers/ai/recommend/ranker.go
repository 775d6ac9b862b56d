package recommend

import "sort"

// Rank orders scored candidates descending by score and truncates to the
// top k. The sort is stable so ties keep their retrieval order. k is
// clamped to at least 1; an empty input yields an empty result for any k.
func Rank(candidates []ScoredCandidate, k int) []ScoredCandidate {
	if k < 1 {
		k = 1
	}

	ranked := make([]ScoredCandidate, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked
}
