package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-ranker/internal/models"
)

func TestClampSearchLimit(t *testing.T) {
	assert.Equal(t, DefaultSearchLimit, clampSearchLimit(0))
	assert.Equal(t, DefaultSearchLimit, clampSearchLimit(-3))
	assert.Equal(t, 7, clampSearchLimit(7))
	assert.Equal(t, MaxSearchLimit, clampSearchLimit(500))
}

func TestNoopCandidateIndex(t *testing.T) {
	index := NewNoopCandidateIndex()
	ctx := context.Background()

	require.NoError(t, index.InitCollection(ctx))
	require.NoError(t, index.IndexCandidate(ctx, "batch", &models.Candidate{Name: "Jane"}))

	hits, err := index.Search(ctx, "golang", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestNewCandidateIndexRejectsBadURL(t *testing.T) {
	_, err := NewCandidateIndex("://bad", "", "resume_chunks", nil, nil)

	assert.Error(t, err)
}
