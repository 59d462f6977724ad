// Package shortlist holds ranked match results joined with their candidates.
package shortlist

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spigell/jd-matcher/internal/matching"
)

const unspecifiedRole = "unspecified"

type Shortlist struct {
	Items []*Entry `json:"items"`
}

type Entry struct {
	Candidate matching.Candidate  `json:"candidate"`
	Result    matching.MatchResult `json:"result"`
}

// New joins every result with the candidate it refers to. Results pointing
// outside candidates are skipped. Result order is kept.
func New(candidates []matching.Candidate, results []matching.MatchResult) *Shortlist {
	s := &Shortlist{Items: make([]*Entry, 0, len(results))}
	for _, r := range results {
		if r.CandidateIndex < 0 || r.CandidateIndex >= len(candidates) {
			continue
		}
		s.Items = append(s.Items, &Entry{Candidate: candidates[r.CandidateIndex], Result: r})
	}
	return s
}

func (s *Shortlist) Len() int {
	return len(s.Items)
}

func (s *Shortlist) Emails() []string {
	emails := make([]string, 0, len(s.Items))
	for _, e := range s.Items {
		if e.Candidate.Email != "" {
			emails = append(emails, e.Candidate.Email)
		}
	}
	return emails
}

func (s *Shortlist) FindByEmail(email string) *Entry {
	email = normalizeEmail(email)
	if email == "" {
		return nil
	}
	for _, e := range s.Items {
		if normalizeEmail(e.Candidate.Email) == email {
			return e
		}
	}
	return nil
}

// Exclude removes entries whose email is in targets and returns the removed emails.
// Emails are compared case-insensitively. Order of the remaining entries is kept.
func (s *Shortlist) Exclude(targets []string) []string {
	set := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		if t = normalizeEmail(t); t != "" {
			set[t] = struct{}{}
		}
	}

	var excluded []string
	kept := s.Items[:0]
	for _, e := range s.Items {
		if _, ok := set[normalizeEmail(e.Candidate.Email)]; ok {
			excluded = append(excluded, e.Candidate.Email)
			continue
		}
		kept = append(kept, e)
	}
	s.Items = kept

	return excluded
}

// Truncate keeps the first n entries. Non-positive n keeps everything.
func (s *Shortlist) Truncate(n int) int {
	if n <= 0 || n >= len(s.Items) {
		return 0
	}
	dropped := len(s.Items) - n
	s.Items = s.Items[:n]
	return dropped
}

// ReportByRole groups entries by the candidate's last role.
func (s *Shortlist) ReportByRole() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, e := range s.Items {
		key := e.Candidate.LastRole
		if key == "" {
			key = unspecifiedRole
		}
		report[key] = append(report[key], map[string]string{
			"name":        e.Candidate.Name,
			"email":       e.Candidate.Email,
			"score":       fmt.Sprintf("%d%%", e.Result.MatchPercentage),
			"source":      e.Result.Source,
			"explanation": e.Result.Explanation,
		})
	}
	return report
}

// Ranking returns one line per entry in shortlist order.
func (s *Shortlist) Ranking() []string {
	lines := make([]string, 0, len(s.Items))
	for i, e := range s.Items {
		name := e.Candidate.Name
		if name == "" {
			name = fmt.Sprintf("candidate #%d", e.Result.CandidateIndex)
		}
		line := fmt.Sprintf("%2d. %3d%%  %s", i+1, e.Result.MatchPercentage, name)
		if e.Candidate.Email != "" {
			line += fmt.Sprintf(" <%s>", e.Candidate.Email)
		}
		lines = append(lines, line)
	}
	return lines
}

func (s *Shortlist) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "shortlist_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
