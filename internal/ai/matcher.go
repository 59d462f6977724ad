package ai

import (
	"context"

	"github.com/spigell/jd-matcher/internal/matching"
	"go.uber.org/zap"
)

// Matcher scores a list of candidates against a job description.
type Matcher interface {
	ScoreAll(ctx context.Context, jobDescription string, candidates []matching.Candidate) ([]matching.MatchResult, error)
}

// Deterministic is the rule-based Matcher. It is always available.
type Deterministic struct{}

func (Deterministic) ScoreAll(_ context.Context, jobDescription string, candidates []matching.Candidate) ([]matching.MatchResult, error) {
	return matching.MatchAll(jobDescription, candidates)
}

// Guarded runs a primary (usually LLM-backed) matcher and keeps its output
// honest with the rule engine. Any primary failure falls back to the rules.
type Guarded struct {
	primary Matcher
	logger  *zap.Logger
}

// NewGuarded creates a Guarded matcher. A nil primary makes it purely deterministic.
func NewGuarded(primary Matcher, logger *zap.Logger) *Guarded {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guarded{primary: primary, logger: logger}
}

func (g *Guarded) ScoreAll(ctx context.Context, jobDescription string, candidates []matching.Candidate) ([]matching.MatchResult, error) {
	if err := matching.ValidateInput(jobDescription, candidates); err != nil {
		return nil, err
	}

	if g.primary == nil {
		return Deterministic{}.ScoreAll(ctx, jobDescription, candidates)
	}

	raw, err := g.primary.ScoreAll(ctx, jobDescription, candidates)
	if err != nil {
		g.logger.Warn("AI scoring failed; falling back to rule-based scoring",
			zap.Int("candidates", len(candidates)),
			zap.Error(err),
		)
		return Deterministic{}.ScoreAll(ctx, jobDescription, candidates)
	}

	results, err := matching.Reconcile(jobDescription, candidates, raw)
	if err != nil {
		return nil, err
	}

	g.logger.Debug("AI scores reconciled with rule engine",
		zap.Int("candidates", len(candidates)),
		zap.Int("ai_results", len(raw)),
		zap.Int("ai_scored", countSource(results, matching.SourceLLM)),
	)

	return results, nil
}

func countSource(results []matching.MatchResult, source string) int {
	n := 0
	for _, r := range results {
		if r.Source == source {
			n++
		}
	}
	return n
}
