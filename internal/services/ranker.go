package services

import (
	"sort"

	"alfredoptarigan/resume-ranker/internal/models"
)

// RankCandidates returns a copy of candidates sorted by score, highest first.
// Equal scores keep their original order.
func RankCandidates(candidates []models.Candidate) []models.Candidate {
	ranked := make([]models.Candidate, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked
}
