// Package matching scores candidate profiles against a free-text job description.
//
// Everything in this package is pure: no I/O, no logging and no shared mutable
// state, so every function is safe to call concurrently.
package matching

const (
	// SourceRules marks results produced by the rule-based scorer.
	SourceRules = "rules"
	// SourceLLM marks results whose score came from a language model.
	SourceLLM = "llm"
)

// Candidate is one parsed resume. Zero values mean "unknown".
type Candidate struct {
	Name            string   `json:"name" yaml:"name" mapstructure:"name"`
	Email           string   `json:"email" yaml:"email" mapstructure:"email"`
	Skills          []string `json:"skills" yaml:"skills" mapstructure:"skills"`
	TotalExperience string   `json:"totalExperience" yaml:"totalExperience" mapstructure:"totalExperience"`
	LastRole        string   `json:"lastRole" yaml:"lastRole" mapstructure:"lastRole"`
	Education       string   `json:"education" yaml:"education" mapstructure:"education"`
}

// JobConstraints is derived from a job description on every run.
type JobConstraints struct {
	// RequiredSkills are canonical technology tokens judged must-have, sorted.
	RequiredSkills []string `json:"requiredSkills"`
	// MentionedSkills are all canonical technology tokens found anywhere in the text, sorted.
	MentionedSkills []string `json:"mentionedSkills"`
	// MinYears is nil when the text carries no years requirement.
	MinYears *int `json:"minYears,omitempty"`
	// RoleKeywords are drawn from RoleFrontend, RoleBackend, RoleFullStack, RoleData and RoleDevOps.
	RoleKeywords []string `json:"roleKeywords"`

	text string
}

// HasRole reports whether the role focus was detected in the job description.
func (c *JobConstraints) HasRole(role string) bool {
	for _, r := range c.RoleKeywords {
		if r == role {
			return true
		}
	}
	return false
}

// MatchResult is the outcome of scoring one candidate.
type MatchResult struct {
	// CandidateIndex points into the input candidate slice.
	CandidateIndex  int      `json:"candidateIndex"`
	MatchPercentage int      `json:"matchPercentage"`
	Explanation     string   `json:"explanation"`
	MissingSkills   []string `json:"missingSkills,omitempty"`
	Source          string   `json:"source"`
}
