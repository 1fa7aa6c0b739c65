package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-ranker/internal/logger"
	"alfredoptarigan/resume-ranker/internal/repositories"
)

const (
	jobQueueSize        = 100
	defaultPollInterval = 10 * time.Second
	pendingBatchLimit   = 10
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueBatch(batchID uuid.UUID)
}

type worker struct {
	batchRepo    repositories.BatchRepository
	processor    BatchProcessor
	jobQueue     chan uuid.UUID
	concurrency  int
	pollInterval time.Duration
	logger       *zap.Logger
	wg           sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once
}

func NewWorker(
	batchRepo repositories.BatchRepository,
	processor BatchProcessor,
	concurrency int,
	log *zap.Logger,
) Worker {
	return &worker{
		batchRepo:    batchRepo,
		processor:    processor,
		jobQueue:     make(chan uuid.UUID, jobQueueSize),
		concurrency:  max(concurrency, 1),
		pollInterval: defaultPollInterval,
		logger:       logger.OrNop(log).With(zap.String("component", "worker")),
		stopChan:     make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	w.logger.Info("starting worker", zap.Int("concurrency", w.concurrency))

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processBatches(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingBatches(ctx)
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		w.logger.Info("stopping worker")
		close(w.stopChan)
	})
	w.wg.Wait()
	w.logger.Info("worker stopped")
}

// EnqueueBatch implements Worker.
func (w *worker) EnqueueBatch(batchID uuid.UUID) {
	select {
	case w.jobQueue <- batchID:
		w.logger.Debug("batch enqueued", zap.String("batch_id", batchID.String()))
	case <-w.stopChan:
		w.logger.Warn("worker stopped, cannot enqueue batch", zap.String("batch_id", batchID.String()))
	}
}

func (w *worker) processBatches(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log := w.logger.With(zap.Int("worker_id", workerID))

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case batchID := <-w.jobQueue:
			log.Info("processing batch", zap.String("batch_id", batchID.String()))
			if err := w.processor.EvaluateStoredBatch(ctx, batchID); err != nil {
				log.Error("failed to process batch", zap.String("batch_id", batchID.String()), zap.Error(err))
			}
		}
	}
}

func (w *worker) pollPendingBatches(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			pending, err := w.batchRepo.FindPendingBatches(pendingBatchLimit)
			if err != nil {
				w.logger.Warn("failed to fetch pending batches", zap.Error(err))
				continue
			}

			if len(pending) > 0 {
				w.logger.Info("found pending batches", zap.Int("count", len(pending)))
			}

			for _, batch := range pending {
				w.EnqueueBatch(batch.ID)
			}
		}
	}
}
