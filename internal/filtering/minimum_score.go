package filtering

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spigell/jd-matcher/internal/shortlist"
)

type minimumScoreFilter struct {
	toggle
	minimum int
}

// NewMinimumScore creates a filter that drops candidates scoring below minimum.
func NewMinimumScore(minimum int) Filter {
	return &minimumScoreFilter{minimum: minimum}
}

func (f *minimumScoreFilter) Name() string { return "minimum_score" }

func (f *minimumScoreFilter) Validate() error {
	if f.minimum < 0 || f.minimum > 100 {
		return fmt.Errorf("minimum score must be between 0 and 100, got %d", f.minimum)
	}
	return nil
}

func (f *minimumScoreFilter) Apply(_ context.Context, s *shortlist.Shortlist) (*shortlist.Shortlist, Step, error) {
	initial := s.Len()

	kept := s.Items[:0]
	for _, e := range s.Items {
		if e.Result.MatchPercentage >= f.minimum {
			kept = append(kept, e)
		}
	}
	s.Items = kept

	return s, Step{Initial: initial, Dropped: initial - s.Len(), Left: s.Len()}, nil
}

func (f *minimumScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"minimum": strconv.Itoa(f.minimum)},
	}
}
