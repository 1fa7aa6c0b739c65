package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-ranker/internal/logger"
	"alfredoptarigan/resume-ranker/internal/models"
)

type EvaluatorService interface {
	EvaluateResume(ctx context.Context, filePath, jobPost string) (*models.Candidate, error)
	EvaluateBatch(ctx context.Context, filePaths []string, jobPost string) ([]models.Candidate, error)
}

type evaluatorService struct {
	loader        DocumentLoader
	agent         EvaluatorAgent
	index         CandidateIndex
	promptBuilder *PromptBuilder
	logger        *zap.Logger
}

func NewEvaluatorService(
	loader DocumentLoader,
	agent EvaluatorAgent,
	index CandidateIndex,
	log *zap.Logger,
) EvaluatorService {
	if index == nil {
		index = NewNoopCandidateIndex()
	}

	return &evaluatorService{
		loader:        loader,
		agent:         agent,
		index:         index,
		promptBuilder: NewPromptBuilder(),
		logger:        logger.OrNop(log),
	}
}

type batchIDKey struct{}

// ContextWithBatchID tags evaluations made with ctx as part of one batch.
func ContextWithBatchID(ctx context.Context, batchID string) context.Context {
	return context.WithValue(ctx, batchIDKey{}, batchID)
}

func batchIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(batchIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// EvaluateResume scores one resume file against jobPost.
func (e *evaluatorService) EvaluateResume(ctx context.Context, filePath, jobPost string) (*models.Candidate, error) {
	filename := filepath.Base(filePath)
	log := e.logger.With(zap.String("filename", filename))

	text, err := e.loader.Load(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filename, err)
	}

	if strings.TrimSpace(text) == "" {
		log.Info("no text extracted, skipping evaluation")
		return &models.Candidate{
			Name:     NameFromFilename(filename),
			Filename: filename,
			Result:   NoTextExtracted,
			Score:    0,
		}, nil
	}

	candidate := &models.Candidate{
		Name:     ResolveName(text, filename),
		Filename: filename,
		Text:     text,
	}

	task := e.promptBuilder.BuildEvaluationTask(text, jobPost)
	log.Debug("evaluating resume",
		zap.String("candidate", candidate.Name),
		zap.Int("task_length", len(task)),
	)

	output, err := e.agent.Kickoff(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate %s: %w", filename, err)
	}

	candidate.Result = output
	candidate.Score = ParseScore(output)

	if !scorePattern.MatchString(output) {
		log.Debug("no score found in agent response",
			zap.String("response_preview", logger.TruncateForLog(output, 200)),
		)
	}

	log.Info("resume evaluated",
		zap.String("candidate", candidate.Name),
		zap.Float64("score", candidate.Score),
	)

	if err := e.index.IndexCandidate(ctx, batchIDFromContext(ctx), candidate); err != nil {
		log.Warn("failed to index candidate", zap.Error(err))
	}

	return candidate, nil
}

// EvaluateBatch checks every file format up front, then evaluates the files
// one at a time and returns the candidates ranked by score.
func (e *evaluatorService) EvaluateBatch(ctx context.Context, filePaths []string, jobPost string) ([]models.Candidate, error) {
	for _, path := range filePaths {
		if err := CheckFormat(path); err != nil {
			return nil, fmt.Errorf("failed to evaluate %s: %w", filepath.Base(path), err)
		}
	}

	if _, ok := ctx.Value(batchIDKey{}).(string); !ok {
		ctx = ContextWithBatchID(ctx, uuid.NewString())
	}

	candidates := make([]models.Candidate, 0, len(filePaths))
	for _, path := range filePaths {
		candidate, err := e.EvaluateResume(ctx, path, jobPost)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, *candidate)
	}

	return RankCandidates(candidates), nil
}
