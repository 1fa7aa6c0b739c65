package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-ranker/internal/logger"
	"alfredoptarigan/resume-ranker/internal/services"
)

type EvaluateHandler struct {
	storageService services.StorageService
	evaluator      services.EvaluatorService
	maxFileSize    int64
	logger         *zap.Logger
}

func NewEvaluateHandler(
	storageService services.StorageService,
	evaluator services.EvaluatorService,
	maxFileSize int64,
	log *zap.Logger,
) *EvaluateHandler {
	return &EvaluateHandler{
		storageService: storageService,
		evaluator:      evaluator,
		maxFileSize:    maxFileSize,
		logger:         logger.OrNop(log),
	}
}

// HandleEvaluate handles POST /evaluate
func (h *EvaluateHandler) HandleEvaluate(c *fiber.Ctx) error {
	form, ok := parseResumeForm(c)
	if !ok {
		return c.SendString(MissingInputMessage)
	}

	if err := validateResumes(form.Resumes, h.maxFileSize); err != nil {
		return err
	}

	paths := make([]string, 0, len(form.Resumes))
	for _, fh := range form.Resumes {
		_, path, err := h.storageService.SaveFile(fh, "")
		if err != nil {
			return err
		}
		paths = append(paths, path)
	}

	h.logger.Info("evaluating resumes", zap.Int("count", len(paths)))

	ranked, err := h.evaluator.EvaluateBatch(c.UserContext(), paths, form.JobPost)
	if err != nil {
		h.logger.Error("evaluation failed", zap.Error(err))
		return err
	}

	return render(c, "results.html", resultsPage{Candidates: toCandidateData(ranked)})
}
