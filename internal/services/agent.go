package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"

	"alfredoptarigan/resume-ranker/internal/logger"
)

// EvaluatorAgent runs one evaluation task through the language model and
// returns its final textual answer.
type EvaluatorAgent interface {
	Kickoff(ctx context.Context, task string) (string, error)
}

type AgentConfig struct {
	APIKey      string
	Model       string
	Timeout     time.Duration
	MaxAttempts int
	RetryDelay  time.Duration
}

const agentUserID = "resume-ranker"

type adkAgent struct {
	runner      *runner.Runner
	sessions    session.Service
	appName     string
	timeout     time.Duration
	maxAttempts int
	retryDelay  time.Duration
	logger      *zap.Logger
}

func NewEvaluatorAgent(ctx context.Context, cfg AgentConfig, log *zap.Logger) (EvaluatorAgent, error) {
	model, err := gemini.NewModel(ctx, cfg.Model, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create model: %w", err)
	}

	evaluator, err := llmagent.New(llmagent.Config{
		Name:        AgentName,
		Model:       model,
		Description: AgentGoal,
		Instruction: NewPromptBuilder().BuildAgentInstruction(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	sessions := session.InMemoryService()

	r, err := runner.New(runner.Config{
		AppName:        evaluator.Name(),
		Agent:          evaluator,
		SessionService: sessions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	return &adkAgent{
		runner:      r,
		sessions:    sessions,
		appName:     evaluator.Name(),
		timeout:     cfg.Timeout,
		maxAttempts: cfg.MaxAttempts,
		retryDelay:  cfg.RetryDelay,
		logger:      logger.OrNop(log).With(zap.String("agent", AgentName), zap.String("model", cfg.Model)),
	}, nil
}

// Kickoff implements EvaluatorAgent.
func (a *adkAgent) Kickoff(ctx context.Context, task string) (string, error) {
	onRetry := func(attempt int, err error) {
		a.logger.Warn("agent kickoff failed, retrying", zap.Int("attempt", attempt), zap.Error(err))
	}

	return retry(ctx, a.maxAttempts, a.retryDelay, onRetry, func(ctx context.Context) (string, error) {
		return a.run(ctx, task)
	})
}

// run executes the task in a throwaway session so concurrent kickoffs never share history.
func (a *adkAgent) run(ctx context.Context, task string) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	created, err := a.sessions.Create(ctx, &session.CreateRequest{
		AppName:   a.appName,
		UserID:    agentUserID,
		SessionID: uuid.NewString(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create agent session: %w", err)
	}
	sess := created.Session

	defer func() {
		err := a.sessions.Delete(context.WithoutCancel(ctx), &session.DeleteRequest{
			AppName:   sess.AppName(),
			UserID:    sess.UserID(),
			SessionID: sess.ID(),
		})
		if err != nil {
			a.logger.Warn("failed to delete agent session", zap.String("session_id", sess.ID()), zap.Error(err))
		}
	}()

	msg := &genai.Content{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: task}},
	}

	var output string
	for event, err := range a.runner.Run(ctx, sess.UserID(), sess.ID(), msg, agent.RunConfig{}) {
		if err != nil {
			return "", fmt.Errorf("agent run failed: %w", err)
		}
		if event == nil || event.Content == nil || !event.IsFinalResponse() {
			continue
		}
		output = joinParts(event.Content.Parts)
	}

	if output == "" {
		return "", errors.New("empty agent response")
	}

	a.logger.Debug("agent response received",
		zap.String("session_id", sess.ID()),
		zap.Int("response_length", len(output)),
		zap.String("response_preview", logger.TruncateForLog(output, 200)),
	)

	return output, nil
}

func joinParts(parts []*genai.Part) string {
	var builder strings.Builder
	for _, part := range parts {
		if part == nil {
			continue
		}
		text := strings.TrimSpace(part.Text)
		if text == "" {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(text)
	}
	return builder.String()
}
