package matching

import (
	"regexp"
	"strings"
)

// Role focus values reported in JobConstraints.RoleKeywords.
const (
	RoleFrontend  = "frontend"
	RoleBackend   = "backend"
	RoleFullStack = "full stack"
	RoleData      = "data"
	RoleDevOps    = "devops"
)

// technologies is the closed vocabulary scanned in job descriptions.
var technologies = []string{
	// frontend
	"react", "next.js", "nextjs", "vue", "angular", "svelte", "redux", "html", "css", "tailwind",
	// languages
	"javascript", "typescript", "python", "java", "kotlin", "go", "golang", "rust", "c#", "c++",
	"php", "ruby", "scala", "swift",
	// backend frameworks
	"node.js", "node", "express", "nestjs", "django", "flask", "fastapi", "spring", "rails", "laravel", ".net",
	// data
	"sql", "postgresql", "postgres", "mysql", "mongodb", "redis", "elasticsearch", "kafka", "spark",
	"pandas", "tensorflow", "pytorch", "graphql",
	// infrastructure
	"aws", "gcp", "azure", "docker", "kubernetes", "k8s", "terraform", "jenkins", "linux",
}

// synonyms folds alternate spellings into the canonical token. Folding only
// goes toward the canonical form.
var synonyms = map[string]string{
	"node":     "node.js",
	"nodejs":   "node.js",
	"postgres": "postgresql",
	"nextjs":   "next.js",
	"reactjs":  "react",
	"react.js": "react",
	"vuejs":    "vue",
	"vue.js":   "vue",
	"golang":   "go",
	"k8s":      "kubernetes",
}

var frontendIndicators = newSet("react", "next.js", "nextjs", "vue", "angular")

var backendIndicators = newSet(
	"node.js", "django", "spring", "rails", "go", "golang", "php", "laravel", "flask", "fastapi",
)

var (
	frontendPattern  = regexp.MustCompile(`\b(frontend|front-end|ui)\b`)
	backendPattern   = regexp.MustCompile(`\b(backend|back-end|server)\b`)
	fullStackPattern = regexp.MustCompile(`\bfull\s*-?\s*stack\b`)
	dataPattern      = regexp.MustCompile(`\b(data|ml|machine learning|ai)\b`)
	devopsPattern    = regexp.MustCompile(`\b(devops|sre|site reliability)\b`)

	genericRolePattern = regexp.MustCompile(`\b(developer|engineer|architect|manager)\b`)

	// "be" alone is an English verb, so job descriptions only count the dotted form.
	jdBachelorPattern   = regexp.MustCompile(`bachelor|b\.?tech|\bb\.e\.|\bb\.sc?\b|\bbsc\b|undergraduate`)
	jdMasterPattern     = regexp.MustCompile(`master|m\.?tech|\bmba\b|\bm\.sc?\b|\bmsc\b|postgraduate`)
	candBachelorPattern = regexp.MustCompile(`bachelor|b\.?tech|\bb\.?e\b|\bb\.?sc?\b`)
	candMasterPattern   = regexp.MustCompile(`master|m\.?tech|\bmba\b|\bm\.?sc?\b`)

	requiredLinePattern = regexp.MustCompile(`must have|requirements|required|qualification`)

	jdYearsPattern        = regexp.MustCompile(`(\d+)\s*\+?\s*(?:years?|yrs?)\b`)
	candidateYearsPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*\+?\s*(?:years?|yrs?)\b`)
)

type set map[string]struct{}

func newSet(items ...string) set {
	s := make(set, len(items))
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}

func (s set) has(item string) bool {
	_, ok := s[item]
	return ok
}

// canonical lowercases a skill and folds known synonyms.
func canonical(skill string) string {
	skill = strings.ToLower(strings.TrimSpace(skill))
	if folded, ok := synonyms[skill]; ok {
		return folded
	}
	return skill
}

// scanTechnologies returns the canonical vocabulary tokens that occur in text
// as whole tokens.
func scanTechnologies(text string) set {
	found := make(set)
	for _, token := range technologies {
		if containsToken(text, token) {
			found[canonical(token)] = struct{}{}
		}
	}
	return found
}

func containsToken(text, token string) bool {
	for offset := 0; offset < len(text); {
		idx := strings.Index(text[offset:], token)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(token)
		if (start == 0 || !isWordByte(text[start-1])) && (end == len(text) || !isWordByte(text[end])) {
			return true
		}
		offset = start + 1
	}
	return false
}

func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}
