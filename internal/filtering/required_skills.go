package filtering

import (
	"context"
	"strings"

	"github.com/spigell/jd-matcher/internal/shortlist"
	"go.uber.org/zap"
)

type requiredSkillsFilter struct {
	toggle
	logger *zap.Logger
}

// NewRequiredSkills creates a strict filter that drops every candidate missing
// at least one skill the job description requires.
func NewRequiredSkills(logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &requiredSkillsFilter{logger: logger}
}

func (f *requiredSkillsFilter) Name() string { return "required_skills" }

func (f *requiredSkillsFilter) Validate() error { return nil }

func (f *requiredSkillsFilter) Apply(_ context.Context, s *shortlist.Shortlist) (*shortlist.Shortlist, Step, error) {
	initial := s.Len()

	kept := s.Items[:0]
	for _, e := range s.Items {
		if len(e.Result.MissingSkills) == 0 {
			kept = append(kept, e)
			continue
		}
		f.logger.Debug("candidate misses required skills",
			zap.String("name", e.Candidate.Name),
			zap.String("missing", strings.Join(e.Result.MissingSkills, ",")),
		)
	}
	s.Items = kept

	return s, Step{Initial: initial, Dropped: initial - s.Len(), Left: s.Len()}, nil
}

func (f *requiredSkillsFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}
