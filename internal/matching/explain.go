package matching

import (
	"fmt"
	"strings"
)

const (
	explainedSkills  = 3
	explainedMissing = 3
)

var explanationNoise = strings.NewReplacer(
	"|", " ",
	"•", " ",
	"·", " ",
	"\n", " ",
	"\r", " ",
	"\t", " ",
)

// Explain describes a candidate in one or two sentences using the given final score.
func Explain(candidate Candidate, score int, jobDescription string) string {
	return ExplainWith(Extract(jobDescription), candidate, score)
}

// ExplainWith is Explain for already extracted constraints.
func ExplainWith(constraints *JobConstraints, candidate Candidate, score int) string {
	return explain(candidate, score, missingSkills(constraints, readProfile(candidate)))
}

func explain(candidate Candidate, score int, missing []string) string {
	parts := make([]string, 0, 4)

	if role := clean(candidate.LastRole); role != "" {
		parts = append(parts, role)
	}

	if skills := topSkills(candidate.Skills, explainedSkills); len(skills) > 0 {
		parts = append(parts, strings.Join(skills, ", "))
	}

	if exp := clean(candidate.TotalExperience); exp != "" {
		if !strings.Contains(strings.ToLower(exp), "experience") {
			exp += " of experience"
		}
		parts = append(parts, exp)
	}

	if edu := clean(candidate.Education); edu != "" {
		parts = append(parts, edu)
	}

	if len(parts) == 0 && len(missing) == 0 {
		name := clean(candidate.Name)
		if name == "" {
			name = "Candidate"
		}
		return name + " appears relevant."
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s (%d%%)", fitLabel(score), score))
	if len(parts) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(parts, "; "))
	}
	b.WriteString(".")

	if len(missing) > 0 {
		shown := missing
		if len(shown) > explainedMissing {
			shown = shown[:explainedMissing]
		}
		b.WriteString(" Missing required skills: ")
		b.WriteString(strings.Join(shown, ", "))
		if len(missing) > explainedMissing {
			b.WriteString("...")
		} else {
			b.WriteString(".")
		}
	}

	return b.String()
}

func fitLabel(score int) string {
	switch {
	case score >= 75:
		return "Strong match"
	case score >= 50:
		return "Partial match"
	default:
		return "Weak match"
	}
}

func topSkills(skills []string, limit int) []string {
	top := make([]string, 0, limit)
	for _, skill := range skills {
		if len(top) == limit {
			break
		}
		if s := clean(skill); s != "" {
			top = append(top, s)
		}
	}
	return top
}

// clean strips separators and sentence-ending periods so a part never
// breaks the one-sentence summary.
func clean(s string) string {
	s = explanationNoise.Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ReplaceAll(s, ". ", " ")
	s = strings.TrimRight(s, ". ")
	return strings.TrimSpace(strings.TrimLeft(s, "-* "))
}
