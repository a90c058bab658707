package search

import (
	"cmp"
	"slices"
)

// rrfK is the Reciprocal Rank Fusion constant (standard value from Cormack et al. 2009).
const rrfK = 60

type ranked struct {
	id    string
	score float64
}

// fuseRRF merges rankings via Reciprocal Rank Fusion.
// score(d) = sum of 1/(k + rank_i(d)) for each ranking where d appears.
func fuseRRF(rankings ...[]ranked) []ranked {
	scores := make(map[string]float64)
	for _, ranking := range rankings {
		for rank, r := range ranking {
			scores[r.id] += 1.0 / float64(rrfK+rank+1)
		}
	}

	fused := make([]ranked, 0, len(scores))
	for id, score := range scores {
		fused = append(fused, ranked{id: id, score: score})
	}
	sortRanked(fused)

	return fused
}

// sortRanked orders by score descending, ties broken by id for stable output.
func sortRanked(results []ranked) {
	slices.SortFunc(results, func(a, b ranked) int {
		if byScore := cmp.Compare(b.score, a.score); byScore != 0 {
			return byScore
		}
		return cmp.Compare(a.id, b.id)
	})
}
