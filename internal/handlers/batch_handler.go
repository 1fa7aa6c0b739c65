package handlers

import (
	"errors"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-ranker/internal/logger"
	"alfredoptarigan/resume-ranker/internal/models"
	"alfredoptarigan/resume-ranker/internal/repositories"
	"alfredoptarigan/resume-ranker/internal/services"
)

type BatchHandler struct {
	batchRepo      repositories.BatchRepository
	storageService services.StorageService
	worker         services.Worker
	maxFileSize    int64
	logger         *zap.Logger
}

func NewBatchHandler(
	batchRepo repositories.BatchRepository,
	storageService services.StorageService,
	worker services.Worker,
	maxFileSize int64,
	log *zap.Logger,
) *BatchHandler {
	return &BatchHandler{
		batchRepo:      batchRepo,
		storageService: storageService,
		worker:         worker,
		maxFileSize:    maxFileSize,
		logger:         logger.OrNop(log),
	}
}

// HandleSubmit handles POST /api/v1/evaluate
func (h *BatchHandler) HandleSubmit(c *fiber.Ctx) error {
	form, ok := parseResumeForm(c)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, MissingInputMessage)
	}

	if err := validateResumes(form.Resumes, h.maxFileSize); err != nil {
		return err
	}

	batch := &models.Batch{
		ID:        uuid.New(),
		JobPost:   form.JobPost,
		Status:    models.StatusQueued,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	batchDir := batch.ID.String()

	for i, fh := range form.Resumes {
		// uploads/<batch>/<position>/ keeps same-named resumes of one batch apart
		subdir := filepath.Join(batchDir, strconv.Itoa(i))
		filename, path, err := h.storageService.SaveFile(fh, subdir)
		if err != nil {
			h.cleanup(batchDir)
			return err
		}

		batch.Candidates = append(batch.Candidates, models.CandidateRecord{
			ID:        uuid.New(),
			BatchID:   batch.ID,
			Position:  i,
			Filename:  filename,
			FilePath:  path,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		})
	}

	if err := h.batchRepo.Create(batch); err != nil {
		h.cleanup(batchDir)
		h.logger.Error("failed to create batch", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create evaluation batch")
	}

	h.worker.EnqueueBatch(batch.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.EvaluateResponse{
		ID:     batch.ID.String(),
		Status: string(models.StatusQueued),
	})
}

// HandleGetResult handles GET /api/v1/result/:id
func (h *BatchHandler) HandleGetResult(c *fiber.Ctx) error {
	batchID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid batch ID format")
	}

	batch, err := h.batchRepo.FindByID(batchID)
	if err != nil {
		if errors.Is(err, repositories.ErrBatchNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Batch not found")
		}
		return err
	}

	response := models.ResultResponse{
		ID:     batch.ID.String(),
		Status: string(batch.Status),
	}

	if batch.Status == models.StatusCompleted {
		response.Candidates = rankedRecords(batch.Candidates)
	}

	if batch.Status == models.StatusFailed && batch.ErrorMessage != nil {
		response.ErrorMessage = batch.ErrorMessage
	}

	return c.JSON(response)
}

func (h *BatchHandler) cleanup(batchDir string) {
	if err := h.storageService.DeleteDir(batchDir); err != nil {
		h.logger.Warn("failed to remove batch uploads", zap.String("dir", batchDir), zap.Error(err))
	}
}

func rankedRecords(records []models.CandidateRecord) []models.CandidateData {
	data := make([]models.CandidateData, 0, len(records))
	for _, r := range records {
		item := models.CandidateData{Filename: r.Filename}
		if r.Rank != nil {
			item.Rank = *r.Rank
		}
		if r.Name != nil {
			item.Name = *r.Name
		}
		if r.Score != nil {
			item.Score = *r.Score
		}
		if r.Result != nil {
			item.Result = *r.Result
		}
		data = append(data, item)
	}

	sort.SliceStable(data, func(i, j int) bool {
		return data[i].Rank < data[j].Rank
	})

	return data
}
