package skills

import (
	"strings"
)

// skillNormalizations maps common skill name variants to canonical names
var skillNormalizations = map[string]string{
	"golang":     "Go",
	"go lang":    "Go",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"k8s":        "Kubernetes",
	"kubernetes": "Kubernetes",
	"react.js":   "React",
	"reactjs":    "React",
	"vue.js":     "Vue",
	"vuejs":      "Vue",
	"node.js":    "Node.js",
	"nodejs":     "Node.js",
	"postgresql": "PostgreSQL",
	"postgres":   "PostgreSQL",
	"psql":       "PostgreSQL",
	"mongodb":    "MongoDB",
	"pytorch":    "PyTorch",
	"tensorflow": "TensorFlow",
	"fastapi":    "FastAPI",
	"next.js":    "Next.js",

	"amazon web services": "AWS",
	"google cloud":        "GCP",
}

// NormalizeSkillName normalizes a skill name to its canonical form.
// All-caps names are treated as acronyms and kept.
func NormalizeSkillName(skillName string) string {
	normalized := strings.TrimSpace(skillName)
	if normalized == "" {
		return ""
	}

	lower := strings.ToLower(normalized)
	if canonical, ok := skillNormalizations[lower]; ok {
		return canonical
	}

	// Mixed case and all-caps are deliberate spellings
	if normalized != lower {
		return normalized
	}

	// All lowercase single word: capitalize first letter
	if !strings.Contains(normalized, " ") {
		return strings.ToUpper(normalized[:1]) + normalized[1:]
	}
	return normalized
}

// aliasesFor returns the normalization keys that resolve to canonical
func aliasesFor(canonical string) []string {
	var aliases []string
	for variant, name := range skillNormalizations {
		if name == canonical {
			aliases = append(aliases, variant)
		}
	}
	return aliases
}
