package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"alfredoptarigan/resume-ranker/internal/logger"
	"alfredoptarigan/resume-ranker/internal/models"
)

const (
	DefaultSearchLimit = 5
	MaxSearchLimit     = 50

	embeddingSize = 768
	excerptLength = 300
)

// CandidateIndex stores evaluated resumes as embedded chunks for semantic search.
type CandidateIndex interface {
	InitCollection(ctx context.Context) error
	IndexCandidate(ctx context.Context, batchID string, candidate *models.Candidate) error
	Search(ctx context.Context, query string, limit int) ([]models.SearchHit, error)
}

type qdrantIndex struct {
	client         *qdrant.Client
	embedder       GeminiService
	splitter       TextSplitter
	collectionName string
	logger         *zap.Logger
}

func NewCandidateIndex(urlStr, apiKey, collectionName string, embedder GeminiService, log *zap.Logger) (CandidateIndex, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	// gRPC port
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   parsed.Hostname(),
		Port:   port,
		APIKey: apiKey,
		UseTLS: parsed.Scheme == "https",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantIndex{
		client:         client,
		embedder:       embedder,
		splitter:       NewTextSplitter(DefaultChunkSize, DefaultChunkOverlap),
		collectionName: collectionName,
		logger:         logger.OrNop(log).With(zap.String("collection", collectionName)),
	}, nil
}

// InitCollection implements CandidateIndex.
func (q *qdrantIndex) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		q.logger.Info("qdrant collection already exists")
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     embeddingSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	q.logger.Info("qdrant collection created")
	return nil
}

// IndexCandidate implements CandidateIndex.
func (q *qdrantIndex) IndexCandidate(ctx context.Context, batchID string, candidate *models.Candidate) error {
	chunks := q.splitter.SplitText(candidate.Text)
	if len(chunks) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, 0, len(chunks))
	for i, chunk := range chunks {
		embedding, err := q.embedder.GenerateEmbedding(ctx, chunk)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %d of %s: %w", i, candidate.Filename, err)
		}

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(uuid.NewString()),
			Vectors: qdrant.NewVectors(embedding...),
			Payload: qdrant.NewValueMap(map[string]any{
				"batch_id":  batchID,
				"candidate": candidate.Name,
				"filename":  candidate.Filename,
				"score":     candidate.Score,
				"chunk":     int64(i),
				"text":      chunk,
			}),
		})
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	q.logger.Debug("candidate indexed",
		zap.String("batch_id", batchID),
		zap.String("filename", candidate.Filename),
		zap.Int("chunks", len(points)),
	)

	return nil
}

// Search implements CandidateIndex.
func (q *qdrantIndex) Search(ctx context.Context, query string, limit int) ([]models.SearchHit, error) {
	limit = clampSearchLimit(limit)

	embedding, err := q.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	hits := make([]models.SearchHit, 0, len(points))
	for _, point := range points {
		payload := point.GetPayload()
		hits = append(hits, models.SearchHit{
			BatchID:   payload["batch_id"].GetStringValue(),
			Candidate: payload["candidate"].GetStringValue(),
			Filename:  payload["filename"].GetStringValue(),
			Score:     payload["score"].GetDoubleValue(),
			Relevance: point.GetScore(),
			Excerpt:   logger.TruncateForLog(payload["text"].GetStringValue(), excerptLength),
		})
	}

	return hits, nil
}

func clampSearchLimit(limit int) int {
	if limit <= 0 {
		return DefaultSearchLimit
	}
	return min(limit, MaxSearchLimit)
}

type noopIndex struct{}

// NewNoopCandidateIndex returns an index that stores nothing and finds nothing.
func NewNoopCandidateIndex() CandidateIndex {
	return noopIndex{}
}

func (noopIndex) InitCollection(context.Context) error { return nil }

func (noopIndex) IndexCandidate(context.Context, string, *models.Candidate) error { return nil }

func (noopIndex) Search(context.Context, string, int) ([]models.SearchHit, error) {
	return []models.SearchHit{}, nil
}
