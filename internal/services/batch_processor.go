package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-ranker/internal/logger"
	"alfredoptarigan/resume-ranker/internal/models"
	"alfredoptarigan/resume-ranker/internal/repositories"
)

// BatchProcessor evaluates a stored batch and persists the ranking.
type BatchProcessor interface {
	EvaluateStoredBatch(ctx context.Context, batchID uuid.UUID) error
}

type batchProcessor struct {
	batchRepo     repositories.BatchRepository
	candidateRepo repositories.CandidateRepository
	evaluator     EvaluatorService
	logger        *zap.Logger
}

func NewBatchProcessor(
	batchRepo repositories.BatchRepository,
	candidateRepo repositories.CandidateRepository,
	evaluator EvaluatorService,
	log *zap.Logger,
) BatchProcessor {
	return &batchProcessor{
		batchRepo:     batchRepo,
		candidateRepo: candidateRepo,
		evaluator:     evaluator,
		logger:        logger.OrNop(log),
	}
}

// EvaluateStoredBatch implements BatchProcessor.
func (p *batchProcessor) EvaluateStoredBatch(ctx context.Context, batchID uuid.UUID) error {
	log := p.logger.With(zap.String("batch_id", batchID.String()))

	claimed, err := p.batchRepo.Claim(batchID)
	if err != nil {
		return fmt.Errorf("failed to claim batch: %w", err)
	}
	if !claimed {
		log.Debug("batch is not queued, skipping")
		return nil
	}

	log.Info("starting batch evaluation")

	batch, err := p.batchRepo.FindByID(batchID)
	if err != nil {
		p.fail(ctx, log, batchID, err)
		return fmt.Errorf("failed to get batch: %w", err)
	}

	ctx = ContextWithBatchID(ctx, batchID.String())

	type scored struct {
		id    uuid.UUID
		score float64
	}
	results := make([]scored, 0, len(batch.Candidates))

	for _, record := range batch.Candidates {
		candidate, err := p.evaluator.EvaluateResume(ctx, record.FilePath, batch.JobPost)
		if err != nil {
			p.fail(ctx, log, batchID, err)
			return fmt.Errorf("failed to evaluate candidate %s: %w", record.ID, err)
		}

		if err := p.candidateRepo.UpdateResult(record.ID, &repositories.CandidateUpdateData{
			Name:   candidate.Name,
			Score:  candidate.Score,
			Result: candidate.Result,
		}); err != nil {
			p.fail(ctx, log, batchID, err)
			return fmt.Errorf("failed to save candidate %s: %w", record.ID, err)
		}

		results = append(results, scored{id: record.ID, score: candidate.Score})
	}

	// Records arrive in upload order, so a stable sort keeps ties in that order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	ranks := make(map[uuid.UUID]int, len(results))
	for i, r := range results {
		ranks[r.id] = i + 1
	}

	if err := p.candidateRepo.UpdateRanks(ranks); err != nil {
		p.fail(ctx, log, batchID, err)
		return fmt.Errorf("failed to save ranks: %w", err)
	}

	if err := p.batchRepo.MarkCompleted(batchID); err != nil {
		return fmt.Errorf("failed to complete batch: %w", err)
	}

	log.Info("batch evaluation completed", zap.Int("candidates", len(results)))
	return nil
}

// fail marks the batch failed. A batch interrupted by shutdown goes back to
// the queue instead.
func (p *batchProcessor) fail(ctx context.Context, log *zap.Logger, batchID uuid.UUID, cause error) {
	if ctx.Err() != nil {
		log.Warn("batch interrupted, requeueing", zap.Error(cause))
		if err := p.batchRepo.UpdateStatus(batchID, models.StatusQueued); err != nil {
			log.Error("failed to requeue batch", zap.Error(err))
		}
		return
	}

	if err := p.batchRepo.UpdateError(batchID, cause.Error()); err != nil {
		log.Error("failed to record batch error", zap.Error(err))
	}
}
