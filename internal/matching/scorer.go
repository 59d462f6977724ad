package matching

import (
	"sort"
	"strconv"
	"strings"
)

const (
	baseScore = 40

	skillPoints   = 8
	skillBonusCap = 35

	missingPenaltyPerSkill = 8
	missingPenaltyCap      = 25

	missingSkillsCeiling = 45
	roleFocusCeiling     = 50
	yearsCeiling         = 55

	roleFocusPenalty = 20
	yearsPenalty     = 20

	// yearsTolerance is how far below the requirement a candidate may fall
	// before the strict shortfall rule applies.
	yearsTolerance = 0.5
)

// assessment is the full outcome of scoring one candidate.
type assessment struct {
	score   int
	missing []string
	// ceiling is the lowest hard cap triggered, 100 when none was.
	ceiling int
}

// profile holds the signals read from a candidate.
type profile struct {
	skills   set
	role     string
	years    float64
	hasYears bool

	frontendSkill bool
	backendSkill  bool

	frontend  bool
	backend   bool
	fullStack bool
	data      bool
	devops    bool
}

func readProfile(c Candidate) profile {
	p := profile{
		skills: make(set, len(c.Skills)),
		role:   strings.ToLower(strings.TrimSpace(c.LastRole)),
	}

	for _, skill := range c.Skills {
		token := canonical(skill)
		if token == "" {
			continue
		}
		p.skills[token] = struct{}{}
		if frontendIndicators.has(token) {
			p.frontendSkill = true
		}
		if backendIndicators.has(token) {
			p.backendSkill = true
		}
	}

	p.years, p.hasYears = parseCandidateYears(c.TotalExperience)

	p.frontend = frontendPattern.MatchString(p.role) || p.frontendSkill
	p.backend = backendPattern.MatchString(p.role) || p.backendSkill
	p.fullStack = fullStackPattern.MatchString(p.role) || (p.frontendSkill && p.backendSkill)
	p.data = dataPattern.MatchString(p.role)
	p.devops = devopsPattern.MatchString(p.role)

	return p
}

// satisfies reports whether the candidate shows the given role focus.
func (p profile) satisfies(role string) bool {
	switch role {
	case RoleFrontend:
		return p.frontend
	case RoleBackend:
		return p.backend
	case RoleFullStack:
		return p.fullStack
	case RoleData:
		return p.data
	case RoleDevOps:
		return p.devops
	default:
		return false
	}
}

func parseCandidateYears(s string) (float64, bool) {
	m := candidateYearsPattern.FindStringSubmatch(strings.ToLower(s))
	if m == nil {
		return 0, false
	}
	years, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return years, true
}

// Score returns the 0-100 compatibility of a candidate with a job description.
func Score(jobDescription string, candidate Candidate) int {
	return ScoreWith(Extract(jobDescription), candidate)
}

// ScoreWith scores a candidate against already extracted constraints.
func ScoreWith(constraints *JobConstraints, candidate Candidate) int {
	return assess(constraints, candidate).score
}

func assess(c *JobConstraints, candidate Candidate) assessment {
	p := readProfile(candidate)
	score := baseScore

	if c.MinYears != nil && p.hasYears {
		required := float64(*c.MinYears)
		switch {
		case p.years >= required:
			score += 10
		case p.years >= required-1:
			score += 6
		case p.years >= required-2:
			score += 3
		}
	}

	overlap := 0
	for _, token := range c.MentionedSkills {
		if p.skills.has(token) {
			overlap++
		}
	}
	score += min(skillBonusCap, overlap*skillPoints)

	score += roleBonus(c, p)
	score += educationBonus(c.text, candidate.Education)

	result := assessment{ceiling: 100}

	result.missing = missingSkills(c, p)
	if len(result.missing) > 0 {
		score -= min(missingPenaltyCap, len(result.missing)*missingPenaltyPerSkill)
		score = min(score, missingSkillsCeiling)
		result.ceiling = min(result.ceiling, missingSkillsCeiling)
	}

	if len(c.RoleKeywords) > 0 && !satisfiesAnyRole(c, p) {
		score -= roleFocusPenalty
		score = min(score, roleFocusCeiling)
		result.ceiling = min(result.ceiling, roleFocusCeiling)
	}

	if c.MinYears != nil && p.hasYears && p.years < float64(*c.MinYears)-yearsTolerance {
		score -= yearsPenalty
		score = min(score, yearsCeiling)
		result.ceiling = min(result.ceiling, yearsCeiling)
	}

	result.score = clampScore(score)
	return result
}

func roleBonus(c *JobConstraints, p profile) int {
	bonus := 0

	if genericRolePattern.MatchString(c.text) && genericRolePattern.MatchString(p.role) {
		bonus += 6
	}

	jdFrontend := c.HasRole(RoleFrontend) || mentionsAny(c, frontendIndicators)
	if jdFrontend && p.frontend {
		bonus += 6
	}

	jdBackend := c.HasRole(RoleBackend) || mentionsAny(c, backendIndicators)
	if jdBackend && p.backend {
		bonus += 6
	}

	if c.HasRole(RoleFullStack) && p.fullStack {
		bonus += 10
	}

	if c.HasRole(RoleData) && p.data {
		bonus += 6
	}

	return bonus
}

func educationBonus(jdText, education string) int {
	education = strings.ToLower(education)
	if education == "" {
		return 0
	}

	bonus := 0
	if jdBachelorPattern.MatchString(jdText) && candBachelorPattern.MatchString(education) {
		bonus += 3
	}
	if jdMasterPattern.MatchString(jdText) && candMasterPattern.MatchString(education) {
		bonus += 3
	}
	return bonus
}

func mentionsAny(c *JobConstraints, indicators set) bool {
	for _, token := range c.MentionedSkills {
		if indicators.has(token) {
			return true
		}
	}
	return false
}

func satisfiesAnyRole(c *JobConstraints, p profile) bool {
	for _, role := range c.RoleKeywords {
		if p.satisfies(role) {
			return true
		}
	}
	return false
}

func missingSkills(c *JobConstraints, p profile) []string {
	missing := make([]string, 0)
	for _, token := range c.RequiredSkills {
		if !p.skills.has(token) {
			missing = append(missing, token)
		}
	}
	sort.Strings(missing)
	return missing
}

func clampScore(score int) int {
	return max(0, min(100, score))
}
