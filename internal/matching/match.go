package matching

import (
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ValidateInput returns an *InputError for an empty job description or candidate list.
func ValidateInput(jobDescription string, candidates []Candidate) error {
	if strings.TrimSpace(jobDescription) == "" {
		return &InputError{Field: "job description", Message: "must not be empty"}
	}
	if len(candidates) == 0 {
		return &InputError{Field: "candidates", Message: "at least one candidate is required"}
	}
	return nil
}

// MatchAll scores every candidate and returns results ordered by score,
// highest first. Equal scores keep the input order.
func MatchAll(jobDescription string, candidates []Candidate) ([]MatchResult, error) {
	if err := ValidateInput(jobDescription, candidates); err != nil {
		return nil, err
	}

	constraints := Extract(jobDescription)
	assessments := make([]assessment, len(candidates))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range candidates {
		g.Go(func() error {
			assessments[i] = assess(constraints, candidates[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]MatchResult, len(candidates))
	for i, a := range assessments {
		results[i] = MatchResult{
			CandidateIndex:  i,
			MatchPercentage: a.score,
			MissingSkills:   a.missing,
			Source:          SourceRules,
		}
	}

	rank(results)
	explainAll(candidates, results)

	return results, nil
}

// Reconcile validates externally produced results against the rule engine.
// Unknown or duplicate candidate indices are dropped, candidates without a
// result are scored by the rules, every score is held under the rule engine's
// hard ceilings, and explanations are regenerated from the final scores.
func Reconcile(jobDescription string, candidates []Candidate, raw []MatchResult) ([]MatchResult, error) {
	if err := ValidateInput(jobDescription, candidates); err != nil {
		return nil, err
	}

	constraints := Extract(jobDescription)

	provided := make(map[int]MatchResult, len(raw))
	for _, r := range raw {
		if r.CandidateIndex < 0 || r.CandidateIndex >= len(candidates) {
			continue
		}
		if _, seen := provided[r.CandidateIndex]; seen {
			continue
		}
		provided[r.CandidateIndex] = r
	}

	results := make([]MatchResult, len(candidates))
	for i, candidate := range candidates {
		a := assess(constraints, candidate)
		result := MatchResult{
			CandidateIndex:  i,
			MatchPercentage: a.score,
			MissingSkills:   a.missing,
			Source:          SourceRules,
		}
		if external, ok := provided[i]; ok {
			result.MatchPercentage = min(clampScore(external.MatchPercentage), a.ceiling)
			result.Source = SourceLLM
		}
		results[i] = result
	}

	rank(results)
	explainAll(candidates, results)

	return results, nil
}

func rank(results []MatchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchPercentage > results[j].MatchPercentage
	})
}

func explainAll(candidates []Candidate, results []MatchResult) {
	for i := range results {
		r := &results[i]
		r.Explanation = explain(candidates[r.CandidateIndex], r.MatchPercentage, r.MissingSkills)
	}
}
