package matching

import (
	"sort"
	"strconv"
	"strings"
)

// Extract parses a job description into constraints. It never fails: empty or
// unrecognisable text yields empty constraints.
func Extract(jobDescription string) *JobConstraints {
	text := normalizeText(jobDescription)

	constraints := &JobConstraints{
		RequiredSkills:  []string{},
		MentionedSkills: []string{},
		RoleKeywords:    []string{},
		text:            text,
	}

	if m := jdYearsPattern.FindStringSubmatch(text); m != nil {
		if years, err := strconv.Atoi(m[1]); err == nil {
			constraints.MinYears = &years
		}
	}

	mentioned := scanTechnologies(text)
	constraints.MentionedSkills = sortedKeys(mentioned)

	required := make(set)
	for _, line := range strings.Split(text, "\n") {
		if !requiredLinePattern.MatchString(line) {
			continue
		}
		for token := range scanTechnologies(line) {
			required[token] = struct{}{}
		}
	}
	// Without an explicit requirements block every mentioned technology is required.
	if len(required) == 0 {
		required = mentioned
	}
	constraints.RequiredSkills = sortedKeys(required)

	constraints.RoleKeywords = detectRoles(text)

	return constraints
}

func detectRoles(text string) []string {
	roles := make([]string, 0, 5)
	if frontendPattern.MatchString(text) {
		roles = append(roles, RoleFrontend)
	}
	if backendPattern.MatchString(text) {
		roles = append(roles, RoleBackend)
	}
	if fullStackPattern.MatchString(text) {
		roles = append(roles, RoleFullStack)
	}
	if dataPattern.MatchString(text) {
		roles = append(roles, RoleData)
	}
	if devopsPattern.MatchString(text) {
		roles = append(roles, RoleDevOps)
	}
	return roles
}

// normalizeText lowercases the input and replaces every character outside
// [a-z0-9+./#-], space and newline with a space, so technology names such as
// "c#" and "node.js" survive intact.
func normalizeText(s string) string {
	s = strings.ToLower(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == '+', r == '.', r == '/', r == '#', r == '-', r == ' ', r == '\n':
			return r
		default:
			return ' '
		}
	}, s)
}

func sortedKeys(s set) []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
