package cmd

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jd-matcher/internal/matching"
	"github.com/spigell/jd-matcher/internal/shortlist"
)

func testList() *shortlist.Shortlist {
	return shortlist.New(
		[]matching.Candidate{
			{Name: "Ann", Email: "ann@example.com", LastRole: "Frontend Developer"},
			{Name: "Bob"},
		},
		[]matching.MatchResult{
			{CandidateIndex: 0, MatchPercentage: 78, Explanation: "Strong match"},
			{CandidateIndex: 1, MatchPercentage: 40},
		},
	)
}

func TestGetConfigValidates(t *testing.T) {
	t.Cleanup(viper.Reset)

	tests := []struct {
		name    string
		values  map[string]any
		wantErr bool
	}{
		{name: "defaults", values: map[string]any{}},
		{name: "score in range", values: map[string]any{"filters.minimum-score": 60, "filters.top": 5}},
		{name: "score above 100", values: map[string]any{"filters.minimum-score": 150}, wantErr: true},
		{name: "negative top", values: map[string]any{"filters.top": -1}, wantErr: true},
		{name: "provider is case insensitive", values: map[string]any{"ai.provider": " Gemini "}},
		{name: "unknown provider", values: map[string]any{"ai.provider": "openai"}, wantErr: true},
		{name: "negative retries", values: map[string]any{"ai.gemini.max-retries": -2}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			for k, v := range tt.values {
				viper.Set(k, v)
			}

			config, err := getConfig()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected validation error, got config %+v", config)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if config.Filters == nil {
				t.Fatalf("filters must default to an empty section")
			}
		})
	}
}

func TestPrepareFiltersDisablesUnconfiguredSteps(t *testing.T) {
	config := &Config{Filters: &FiltersConfig{MinimumScore: 50}}

	statuses := prepareFilters(config, zap.NewNop()).Describe()

	enabled := map[string]bool{}
	for _, s := range statuses {
		enabled[s.Name] = s.Enabled
	}

	want := map[string]bool{
		"exclude_file":    false,
		"minimum_score":   true,
		"required_skills": false,
		"top":             true,
	}
	for name, state := range want {
		if enabled[name] != state {
			t.Fatalf("expected %s enabled=%v, got %v", name, state, enabled[name])
		}
	}
}

func TestAppendToExcludeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "excluded.json")
	list := testList()

	err := handleAction(PromptAppendToExcludeFile, zap.NewNop(), &Config{ExcludeFile: path}, list)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	excluded, err := shortlist.LoadExcluded(path)
	if err != nil {
		t.Fatalf("reading exclude file: %v", err)
	}
	if got := excluded.Emails(); len(got) != 1 || got[0] != "ann@example.com" {
		t.Fatalf("unexpected excluded emails: %v", got)
	}
	if excluded.Items[0].Reason != excludeReason {
		t.Fatalf("unexpected reason: %q", excluded.Items[0].Reason)
	}

	// Only the candidate without an email is left.
	if list.Len() != 1 || list.Items[0].Candidate.Name != "Bob" {
		t.Fatalf("unexpected shortlist after append: %+v", list.Items)
	}
}

func TestAppendToExcludeFileWithoutPath(t *testing.T) {
	if err := appendToExcludeFile(zap.NewNop(), "", testList()); err == nil {
		t.Fatal("expected error without exclude file")
	}
}

func TestHandleActionExit(t *testing.T) {
	err := handleAction(PromptExit, zap.NewNop(), &Config{}, testList())
	if !errors.Is(err, errExit) {
		t.Fatalf("expected errExit, got %v", err)
	}

	if err := handleAction("bogus", zap.NewNop(), &Config{}, testList()); err == nil {
		t.Fatal("expected error for unknown action")
	}
}

func TestRedactedHidesAPIKey(t *testing.T) {
	config := &Config{AI: &AIConfig{Gemini: &GeminiConfig{APIKey: "secret", Model: "m"}}}

	safe := redacted(config)

	if safe.AI.Gemini.APIKey != "***" {
		t.Fatalf("expected api key to be redacted, got %q", safe.AI.Gemini.APIKey)
	}
	if config.AI.Gemini.APIKey != "secret" {
		t.Fatalf("original config must not change")
	}
}

func TestReadJobDescription(t *testing.T) {
	if _, err := readJobDescription(""); err == nil {
		t.Fatal("expected error for empty path")
	}
	if _, err := readJobDescription(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out.String(), "jd-matcher version: unknown") {
		t.Fatalf("unexpected output: %q", out.String())
	}
}
