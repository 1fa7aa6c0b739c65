package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"alfredoptarigan/resume-ranker/internal/models"
)

func TestRankCandidates(t *testing.T) {
	candidates := []models.Candidate{
		{Name: "A", Score: 5},
		{Name: "B", Score: 9},
		{Name: "C", Score: 5},
		{Name: "D", Score: 0},
		{Name: "E", Score: 9},
	}

	ranked := RankCandidates(candidates)

	var names []string
	for _, c := range ranked {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"B", "E", "A", "C", "D"}, names)

	// input untouched
	assert.Equal(t, "A", candidates[0].Name)
}

func TestRankCandidatesEmpty(t *testing.T) {
	assert.Empty(t, RankCandidates(nil))
}
