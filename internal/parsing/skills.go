package parsing

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-parser/internal/types"
)

const (
	minSkillLen = 2
	maxSkillLen = 49
)

var (
	categoryLineRegex   = regexp.MustCompile(`^([A-Z][A-Za-z\s/&]+)\s*:\s*(.+)$`)
	categoryCleanRegex  = regexp.MustCompile(`[^\w\s/&]`)
	skillSplitRegex     = regexp.MustCompile(`[,;]`)
	flatSeparatorRegex  = regexp.MustCompile(`[•·|]|(?:^|\s)[-*](?:\s|$)`)
	lineBreakSpaceRegex = regexp.MustCompile(`\s*\n\s*`)
	skillStopWordRegex  = regexp.MustCompile(`(?i)^(?:and|or|the|a|an|with|using)$`)
)

// ParseSkills reads "Category: a, b" lines, attaching following unlabeled lines to the
// last category. When no skill ends up with a category the whole section is re-read
// as one flat list.
func ParseSkills(sectionText string) []types.Skill {
	out := []types.Skill{}
	if strings.TrimSpace(sectionText) == "" {
		return out
	}

	var category *string
	categorized := false

	for _, line := range nonEmptyLines(sectionText) {
		line = leadingBulletStrip.ReplaceAllString(line, "")

		if m := categoryLineRegex.FindStringSubmatch(line); m != nil {
			category = strPtr(categoryCleanRegex.ReplaceAllString(m[1], ""))
			for _, name := range splitSkillTokens(m[2]) {
				out = append(out, types.Skill{Name: name, Category: category})
				categorized = categorized || category != nil
			}
			continue
		}

		if category != nil {
			for _, name := range splitSkillTokens(line) {
				out = append(out, types.Skill{Name: name, Category: category})
				categorized = true
			}
			continue
		}

		for _, name := range splitSkillTokens(flatSeparatorRegex.ReplaceAllString(line, ",")) {
			out = append(out, types.Skill{Name: name})
		}
	}

	if categorized {
		return dedupeSkills(out)
	}
	return parseFlatSkills(sectionText)
}

// parseFlatSkills treats the entire section as one separator-delimited list
func parseFlatSkills(sectionText string) []types.Skill {
	out := []types.Skill{}
	text := flatSeparatorRegex.ReplaceAllString(sectionText, ",")
	text = lineBreakSpaceRegex.ReplaceAllString(strings.TrimSpace(text), ", ")
	for _, name := range splitSkillTokens(text) {
		out = append(out, types.Skill{Name: name})
	}
	return dedupeSkills(out)
}

// splitSkillTokens splits on comma or semicolon and drops stop words and
// tokens outside the accepted length range
func splitSkillTokens(s string) []string {
	var tokens []string
	for _, tok := range skillSplitRegex.Split(s, -1) {
		tok = strings.TrimSpace(tok)
		n := utf8.RuneCountInString(tok)
		if n < minSkillLen || n > maxSkillLen {
			continue
		}
		if skillStopWordRegex.MatchString(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// dedupeSkills drops repeats of the same name within the same category, ignoring case
func dedupeSkills(in []types.Skill) []types.Skill {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		key := strings.ToLower(s.Name)
		if s.Category != nil {
			key = strings.ToLower(*s.Category) + "\x00" + key
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
