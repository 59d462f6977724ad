// Package candidates reads candidate profiles from JSON or YAML files.
package candidates

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spigell/jd-matcher/internal/matching"
	"gopkg.in/yaml.v3"
)

// MaxSkills is the number of skills kept per candidate.
const MaxSkills = 10

var aliases = map[string]string{
	"total_experience": "totalExperience",
	"last_role":        "lastRole",
}

// Load reads candidates from path. The document is either a list of records
// or an object holding that list under "candidates".
func Load(path string) ([]matching.Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading candidates file %q: %w", path, err)
	}

	var doc any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing candidates file %q: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing candidates file %q: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported candidates file extension %q (want .json, .yaml or .yml)", ext)
	}

	records, err := recordList(doc)
	if err != nil {
		return nil, fmt.Errorf("candidates file %q: %w", path, err)
	}

	return Decode(records)
}

// Decode converts loosely typed records into candidates.
func Decode(records []any) ([]matching.Candidate, error) {
	result := make([]matching.Candidate, 0, len(records))
	for i, record := range records {
		fields, ok := record.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("candidate #%d is not an object", i)
		}

		var c matching.Candidate
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &c,
		})
		if err != nil {
			return nil, err
		}

		if err := decoder.Decode(normalizeRecord(fields)); err != nil {
			return nil, fmt.Errorf("decoding candidate #%d: %w", i, err)
		}

		result = append(result, clean(c))
	}

	return result, nil
}

func recordList(doc any) ([]any, error) {
	switch val := doc.(type) {
	case []any:
		return val, nil
	case map[string]any:
		list, ok := val["candidates"]
		if !ok {
			return nil, fmt.Errorf(`expected a list or an object with a "candidates" list`)
		}
		if list == nil {
			return []any{}, nil
		}
		records, ok := list.([]any)
		if !ok {
			return nil, fmt.Errorf(`"candidates" must be a list`)
		}
		return records, nil
	case nil:
		return []any{}, nil
	default:
		return nil, fmt.Errorf("expected a list of candidates, got %T", doc)
	}
}

func normalizeRecord(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for key, value := range fields {
		if value == nil {
			continue
		}
		if alias, ok := aliases[strings.ToLower(key)]; ok {
			if _, exists := fields[alias]; exists {
				continue
			}
			key = alias
		}
		out[key] = value
	}

	if skills, ok := out["skills"].(string); ok {
		out["skills"] = strings.Split(skills, ",")
	}

	// A bare number of years carries no unit, and the scorer only reads "<n> years".
	if years, ok := numeric(out["totalExperience"]); ok {
		out["totalExperience"] = strconv.FormatFloat(years, 'f', -1, 64) + " years"
	}

	return out
}

func numeric(v any) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint64:
		return float64(val), true
	case float64:
		return val, true
	default:
		return 0, false
	}
}

func clean(c matching.Candidate) matching.Candidate {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.TotalExperience = strings.TrimSpace(c.TotalExperience)
	c.LastRole = strings.TrimSpace(c.LastRole)
	c.Education = strings.TrimSpace(c.Education)

	skills := make([]string, 0, len(c.Skills))
	for _, s := range c.Skills {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	if len(skills) > MaxSkills {
		skills = skills[:MaxSkills]
	}
	c.Skills = skills

	return c
}
