package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/resume-ranker/internal/config"
	"alfredoptarigan/resume-ranker/internal/logger"
	"alfredoptarigan/resume-ranker/internal/models"
	"alfredoptarigan/resume-ranker/internal/services"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		jobFile string
		jobText string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "rank-resumes [flags] RESUME...",
		Short: "Rank local resume files against a job description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobPost, err := readJobPost(jobFile, jobText)
			if err != nil {
				return err
			}

			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return err
			}

			log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer func() { _ = log.Sync() }()

			ctx := cmd.Context()

			agent, err := services.NewEvaluatorAgent(ctx, services.AgentConfig{
				APIKey:      cfg.Gemini.APIKey,
				Model:       cfg.Gemini.Model,
				Timeout:     cfg.Gemini.AgentTimeout,
				MaxAttempts: cfg.Worker.RetryMaxAttempts,
				RetryDelay:  cfg.Worker.RetryInitialDelay,
			}, log)
			if err != nil {
				return err
			}

			index := services.NewNoopCandidateIndex()
			if cfg.Qdrant.Enabled {
				embedder, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.EmbedModel)
				if err != nil {
					return err
				}
				index, err = services.NewCandidateIndex(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, embedder, log)
				if err != nil {
					return err
				}
				if err := index.InitCollection(ctx); err != nil {
					return err
				}
			}

			evaluator := services.NewEvaluatorService(services.NewDocumentLoader(nil), agent, index, log)

			log.Info("ranking resumes", zap.Int("count", len(args)))
			ranked, err := evaluator.EvaluateBatch(ctx, args, jobPost)
			if err != nil {
				return err
			}

			return printRanking(cmd, ranked, asJSON)
		},
	}

	cmd.Flags().StringVarP(&jobFile, "job-file", "f", "", "path to a text file holding the job description")
	cmd.Flags().StringVarP(&jobText, "job", "j", "", "job description text")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the ranking as JSON")
	cmd.MarkFlagsMutuallyExclusive("job-file", "job")

	return cmd
}

func readJobPost(jobFile, jobText string) (string, error) {
	if jobFile != "" {
		data, err := os.ReadFile(jobFile)
		if err != nil {
			return "", fmt.Errorf("failed to read job description: %w", err)
		}
		jobText = string(data)
	}

	if strings.TrimSpace(jobText) == "" {
		return "", errors.New("a job description is required, use --job or --job-file")
	}

	return jobText, nil
}

func printRanking(cmd *cobra.Command, ranked []models.Candidate, asJSON bool) error {
	out := cmd.OutOrStdout()

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(ranked)
	}

	for i, candidate := range ranked {
		fmt.Fprintf(out, "%d. %s (%s) - %.1f/10\n", i+1, candidate.Name, candidate.Filename, candidate.Score)
	}
	return nil
}
