package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-ranker/internal/models"
	"alfredoptarigan/resume-ranker/internal/repositories"
)

type stubBatchRepo struct {
	mu       sync.Mutex
	batch    *models.Batch
	statuses []models.BatchStatus
	errorMsg string
	pending  []models.Batch
	claims   int
}

func (r *stubBatchRepo) Create(batch *models.Batch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batch = batch
	return nil
}

func (r *stubBatchRepo) FindByID(id uuid.UUID) (*models.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.batch == nil || r.batch.ID != id {
		return nil, repositories.ErrBatchNotFound
	}
	return r.batch, nil
}

func (r *stubBatchRepo) UpdateStatus(id uuid.UUID, status models.BatchStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, status)
	if r.batch != nil && r.batch.ID == id {
		r.batch.Status = status
	}
	return nil
}

func (r *stubBatchRepo) Claim(id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.claims++
	if r.batch == nil || r.batch.ID != id || r.batch.Status != models.StatusQueued {
		return false, nil
	}
	r.batch.Status = models.StatusProcessing
	r.statuses = append(r.statuses, models.StatusProcessing)
	return true, nil
}

func (r *stubBatchRepo) RequeueProcessing() (int64, error) {
	return 0, nil
}

func (r *stubBatchRepo) claimCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.claims
}

func (r *stubBatchRepo) MarkCompleted(id uuid.UUID) error {
	return r.UpdateStatus(id, models.StatusCompleted)
}

func (r *stubBatchRepo) UpdateError(id uuid.UUID, errorMsg string) error {
	r.mu.Lock()
	r.errorMsg = errorMsg
	r.mu.Unlock()
	return r.UpdateStatus(id, models.StatusFailed)
}

func (r *stubBatchRepo) FindPendingBatches(int) ([]models.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pending := r.pending
	r.pending = nil
	return pending, nil
}

func (r *stubBatchRepo) lastStatus() models.BatchStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.statuses) == 0 {
		return ""
	}
	return r.statuses[len(r.statuses)-1]
}

type stubCandidateRepo struct {
	results map[uuid.UUID]repositories.CandidateUpdateData
	ranks   map[uuid.UUID]int
}

func newStubCandidateRepo() *stubCandidateRepo {
	return &stubCandidateRepo{results: map[uuid.UUID]repositories.CandidateUpdateData{}}
}

func (r *stubCandidateRepo) FindByBatchID(uuid.UUID) ([]models.CandidateRecord, error) {
	return nil, nil
}

func (r *stubCandidateRepo) UpdateResult(id uuid.UUID, data *repositories.CandidateUpdateData) error {
	r.results[id] = *data
	return nil
}

func (r *stubCandidateRepo) UpdateRanks(ranks map[uuid.UUID]int) error {
	r.ranks = ranks
	return nil
}

type stubEvaluator struct {
	mu     sync.Mutex
	calls  int
	byPath map[string]*models.Candidate
	err    error
}

func (s *stubEvaluator) EvaluateResume(ctx context.Context, path, _ string) (*models.Candidate, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.byPath[path], nil
}

func (s *stubEvaluator) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *stubEvaluator) EvaluateBatch(context.Context, []string, string) ([]models.Candidate, error) {
	return nil, errors.New("not used")
}

func newStoredBatch(paths ...string) *models.Batch {
	batch := &models.Batch{ID: uuid.New(), JobPost: "Go developer", Status: models.StatusQueued}
	for i, path := range paths {
		batch.Candidates = append(batch.Candidates, models.CandidateRecord{
			ID:       uuid.New(),
			BatchID:  batch.ID,
			Position: i,
			Filename: path,
			FilePath: path,
		})
	}
	return batch
}

func TestEvaluateStoredBatch(t *testing.T) {
	batch := newStoredBatch("a.txt", "b.txt", "c.txt")
	batchRepo := &stubBatchRepo{batch: batch}
	candidateRepo := newStubCandidateRepo()
	evaluator := &stubEvaluator{byPath: map[string]*models.Candidate{
		"a.txt": {Name: "Alice", Score: 5, Result: "Score: 5/10"},
		"b.txt": {Name: "Bob", Score: 9, Result: "Score: 9/10"},
		"c.txt": {Name: "Carol", Score: 5, Result: "Score: 5/10"},
	}}

	err := NewBatchProcessor(batchRepo, candidateRepo, evaluator, nil).EvaluateStoredBatch(context.Background(), batch.ID)
	require.NoError(t, err)

	assert.Equal(t, []models.BatchStatus{models.StatusProcessing, models.StatusCompleted}, batchRepo.statuses)

	a, b, c := batch.Candidates[0].ID, batch.Candidates[1].ID, batch.Candidates[2].ID
	assert.Equal(t, map[uuid.UUID]int{b: 1, a: 2, c: 3}, candidateRepo.ranks)
	assert.Equal(t, "Bob", candidateRepo.results[b].Name)
	assert.Equal(t, 9.0, candidateRepo.results[b].Score)
}

func TestEvaluateStoredBatchMarksFailure(t *testing.T) {
	batch := newStoredBatch("a.txt")
	batchRepo := &stubBatchRepo{batch: batch}
	candidateRepo := newStubCandidateRepo()
	evaluator := &stubEvaluator{err: errors.New("agent unavailable")}

	err := NewBatchProcessor(batchRepo, candidateRepo, evaluator, nil).EvaluateStoredBatch(context.Background(), batch.ID)

	require.Error(t, err)
	assert.Equal(t, models.StatusFailed, batchRepo.lastStatus())
	assert.Contains(t, batchRepo.errorMsg, "agent unavailable")
	assert.Nil(t, candidateRepo.ranks)
}

func TestEvaluateStoredBatchSkipsUnknownBatch(t *testing.T) {
	batchRepo := &stubBatchRepo{}
	evaluator := &stubEvaluator{}

	err := NewBatchProcessor(batchRepo, newStubCandidateRepo(), evaluator, nil).
		EvaluateStoredBatch(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Zero(t, evaluator.callCount())
}

func TestEvaluateStoredBatchRunsOnce(t *testing.T) {
	batch := newStoredBatch("a.txt")
	batchRepo := &stubBatchRepo{batch: batch}
	candidateRepo := newStubCandidateRepo()
	evaluator := &stubEvaluator{byPath: map[string]*models.Candidate{
		"a.txt": {Name: "Alice", Score: 5},
	}}
	processor := NewBatchProcessor(batchRepo, candidateRepo, evaluator, nil)

	require.NoError(t, processor.EvaluateStoredBatch(context.Background(), batch.ID))
	require.NoError(t, processor.EvaluateStoredBatch(context.Background(), batch.ID))

	assert.Equal(t, 1, evaluator.callCount())
	assert.Equal(t, models.StatusCompleted, batch.Status)
}

func TestEvaluateStoredBatchRequeuesOnCancel(t *testing.T) {
	batch := newStoredBatch("a.txt")
	batchRepo := &stubBatchRepo{batch: batch}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewBatchProcessor(batchRepo, newStubCandidateRepo(), &stubEvaluator{}, nil).
		EvaluateStoredBatch(ctx, batch.ID)

	require.Error(t, err)
	assert.Equal(t, models.StatusQueued, batch.Status)
	assert.Empty(t, batchRepo.errorMsg)
}
