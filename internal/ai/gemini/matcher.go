package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/spigell/jd-matcher/internal/matching"
	"github.com/spigell/jd-matcher/internal/utils"
	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

// Matcher asks Gemini to score every candidate in a single request.
type Matcher struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength = 200

	systemInstruction = "You are a meticulous technical recruiter. You score candidates against a job description " +
		"and answer with JSON only. Never invent skills or experience the candidate profile does not state."
)

func NewMatcher(generator contentGenerator, maxLogLength int, logger *zap.Logger) *Matcher {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Matcher{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// candidatePayload is the candidate view sent to the model. Emails stay local.
type candidatePayload struct {
	Index           int      `json:"index"`
	Name            string   `json:"name,omitempty"`
	Skills          []string `json:"skills"`
	TotalExperience string   `json:"totalExperience,omitempty"`
	LastRole        string   `json:"lastRole,omitempty"`
	Education       string   `json:"education,omitempty"`
}

func (m *Matcher) ScoreAll(ctx context.Context, jobDescription string, candidates []matching.Candidate) ([]matching.MatchResult, error) {
	if m == nil || m.generator == nil {
		return nil, errors.New("gemini matcher is not initialized")
	}
	if err := matching.ValidateInput(jobDescription, candidates); err != nil {
		return nil, err
	}

	payload := make([]candidatePayload, 0, len(candidates))
	for i, c := range candidates {
		skills := c.Skills
		if skills == nil {
			skills = []string{}
		}
		payload = append(payload, candidatePayload{
			Index:           i,
			Name:            c.Name,
			Skills:          skills,
			TotalExperience: c.TotalExperience,
			LastRole:        c.LastRole,
			Education:       c.Education,
		})
	}

	candidatesJSON, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal candidates payload: %w", err)
	}

	prompt := buildPrompt(strings.TrimSpace(jobDescription), string(candidatesJSON))

	m.logger.Debug("gemini generate content request",
		zap.Int("candidates", len(candidates)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, m.maxLogLen)),
	)

	raw, err := m.generator.GenerateContent(ctx, systemInstruction, prompt)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, m.maxLogLen)),
	)

	return parseResponse(raw)
}

func buildPrompt(jobDescription, candidatesJSON string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Job description:\n{{JOB_DESCRIPTION}}\n\nCandidates:\n{{CANDIDATES_JSON}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{JOB_DESCRIPTION}}", jobDescription)
	prompt = strings.ReplaceAll(prompt, "{{CANDIDATES_JSON}}", candidatesJSON)
	return prompt
}

// parseResponse accepts either a bare JSON array or an object wrapping it
// under "results" or "matches". Entries without a usable index or score are skipped.
func parseResponse(raw string) ([]matching.MatchResult, error) {
	cleaned := extractJSON(raw)

	var data any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	var items []any
	switch val := data.(type) {
	case []any:
		items = val
	case map[string]any:
		for _, key := range []string{"results", "matches"} {
			if list, ok := val[key].([]any); ok {
				items = list
				break
			}
		}
	}

	results := make([]matching.MatchResult, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}

		index := coerceFloat(firstOf(entry, "candidateIndex", "index"))
		score := coerceFloat(firstOf(entry, "matchPercentage", "score"))
		if !isFinite(index) || !isFinite(score) || index != math.Trunc(index) {
			continue
		}

		results = append(results, matching.MatchResult{
			CandidateIndex:  int(index),
			MatchPercentage: int(math.Round(score)),
			Explanation:     coerceString(entry["explanation"]),
			Source:          matching.SourceLLM,
		})
	}

	if len(results) == 0 {
		return nil, errors.New("gemini response contains no match results")
	}

	return results, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func firstOf(entry map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := entry[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSuffix(strings.TrimSpace(val), "%")
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
