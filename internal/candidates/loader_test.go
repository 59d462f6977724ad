package candidates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spigell/jd-matcher/internal/matching"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_JSONList(t *testing.T) {
	path := writeFile(t, "candidates.json", `[
  {"name": " Jane Doe ", "email": "jane@example.com", "skills": ["React", " ", "TypeScript"], "totalExperience": "6 years", "lastRole": "Frontend Developer", "education": "BSc"},
  {"name": "John", "skills": "Go, Kubernetes ,, Docker", "total_experience": 4, "last_role": "Backend Engineer"}
]`)

	got, err := Load(path)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, matching.Candidate{
		Name:            "Jane Doe",
		Email:           "jane@example.com",
		Skills:          []string{"React", "TypeScript"},
		TotalExperience: "6 years",
		LastRole:        "Frontend Developer",
		Education:       "BSc",
	}, got[0])

	assert.Equal(t, []string{"Go", "Kubernetes", "Docker"}, got[1].Skills)
	assert.Equal(t, "4 years", got[1].TotalExperience)
	assert.Equal(t, "Backend Engineer", got[1].LastRole)
	assert.Empty(t, got[1].Email)
}

func TestLoad_YAMLWrapped(t *testing.T) {
	path := writeFile(t, "candidates.yaml", `
candidates:
  - name: Ann
    skills: [Python, SQL]
    lastRole: Data Engineer
    education: MSc
  - name: Bob
    skills:
    lastRole: ~
`)

	got, err := Load(path)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, []string{"Python", "SQL"}, got[0].Skills)
	assert.Equal(t, "Data Engineer", got[0].LastRole)

	assert.NotNil(t, got[1].Skills)
	assert.Empty(t, got[1].Skills)
	assert.Empty(t, got[1].LastRole)
}

func TestLoad_TruncatesSkills(t *testing.T) {
	path := writeFile(t, "candidates.yml", `- skills: [a, b, c, d, e, f, g, h, i, j, k, l]`)

	got, err := Load(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Len(t, got[0].Skills, MaxSkills)
	assert.Equal(t, "j", got[0].Skills[MaxSkills-1])
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "unsupported extension", file: "candidates.csv", content: "name\nJane"},
		{name: "malformed json", file: "candidates.json", content: `[{"name": `},
		{name: "malformed yaml", file: "candidates.yaml", content: "candidates: [\n  - name"},
		{name: "record is not an object", file: "candidates.json", content: `["Jane"]`},
		{name: "object without candidates", file: "candidates.json", content: `{"people": []}`},
		{name: "candidates is not a list", file: "candidates.json", content: `{"candidates": "Jane"}`},
		{name: "scalar document", file: "candidates.json", content: `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoad_EmptyList(t *testing.T) {
	got, err := Load(writeFile(t, "candidates.json", `{"candidates": []}`))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoad_NumericExperienceScoresLikeText(t *testing.T) {
	path := writeFile(t, "candidates.yaml", `
- name: Numeric
  skills: [React, TypeScript, Node.js]
  totalExperience: 6
  lastRole: Frontend Developer
- name: Text
  skills: [React, TypeScript, Node.js]
  totalExperience: 6 years
  lastRole: Frontend Developer
- name: Fractional
  skills: [React, TypeScript, Node.js]
  total_experience: 5.5
  lastRole: Frontend Developer
`)

	got, err := Load(path)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "6 years", got[0].TotalExperience)
	assert.Equal(t, "5.5 years", got[2].TotalExperience)

	results, err := matching.MatchAll("5+ years React developer, must have: react, typescript", got)
	require.NoError(t, err)

	scores := map[int]matching.MatchResult{}
	for _, r := range results {
		scores[r.CandidateIndex] = r
	}
	assert.Equal(t, 78, scores[0].MatchPercentage)
	assert.Equal(t, scores[1].MatchPercentage, scores[0].MatchPercentage)
	assert.Equal(t, 78, scores[2].MatchPercentage)
	assert.Contains(t, scores[0].Explanation, "6 years of experience")
	assert.NotContains(t, scores[0].Explanation, "6 of experience")
}
