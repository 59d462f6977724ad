package filtering

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spigell/jd-matcher/internal/shortlist"
)

type topFilter struct {
	toggle
	n int
}

// NewTop creates a filter that keeps the first n candidates. Zero keeps everyone.
func NewTop(n int) Filter {
	return &topFilter{n: n}
}

func (f *topFilter) Name() string { return "top" }

func (f *topFilter) Validate() error {
	if f.n < 0 {
		return fmt.Errorf("top must not be negative, got %d", f.n)
	}
	return nil
}

func (f *topFilter) Apply(_ context.Context, s *shortlist.Shortlist) (*shortlist.Shortlist, Step, error) {
	initial := s.Len()
	dropped := s.Truncate(f.n)
	return s, Step{Initial: initial, Dropped: dropped, Left: s.Len()}, nil
}

func (f *topFilter) Status() Status {
	details := map[string]string{"limit": "all"}
	if f.n > 0 {
		details["limit"] = strconv.Itoa(f.n)
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
