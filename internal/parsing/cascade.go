package parsing

import (
	"regexp"
	"strings"
)

// rule is one step of an ordered "first match wins" cascade.
// extract turns the submatches into a value; returning false passes to the next rule.
type rule struct {
	name    string
	pattern *regexp.Regexp
	extract func(match []string) (string, bool)
}

// cascade is an ordered list of rules tried in sequence
type cascade []rule

// first returns the value of the first rule that matches text and accepts the match
func (c cascade) first(text string) (string, bool) {
	v, _, ok := c.match(text)
	return v, ok
}

// match is first, also reporting the byte offset where the accepted match starts
func (c cascade) match(text string) (string, int, bool) {
	for _, r := range c {
		loc := r.pattern.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		m := submatches(text, loc)
		if r.extract == nil {
			return strings.TrimSpace(m[0]), loc[0], true
		}
		if v, ok := r.extract(m); ok {
			return v, loc[0], true
		}
	}
	return "", 0, false
}

// submatches expands a FindStringSubmatchIndex result; unmatched groups are empty
func submatches(text string, loc []int) []string {
	m := make([]string, len(loc)/2)
	for i := range m {
		if loc[2*i] >= 0 {
			m[i] = text[loc[2*i]:loc[2*i+1]]
		}
	}
	return m
}

// group returns an extractor yielding the trimmed submatch at index i
func group(i int) func([]string) (string, bool) {
	return func(m []string) (string, bool) {
		if i >= len(m) {
			return "", false
		}
		v := strings.TrimSpace(m[i])
		return v, v != ""
	}
}

// strPtr returns nil for empty strings
func strPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// nonEmptyLines splits text into trimmed, non-empty lines
func nonEmptyLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

var (
	multiSpaceRegex       = regexp.MustCompile(`[ \t]+`)
	spaceBeforePunctRegex = regexp.MustCompile(`\s+([,.;:!?])`)
)

// cleanItem collapses whitespace and removes spaces before punctuation
func cleanItem(s string) string {
	s = multiSpaceRegex.ReplaceAllString(s, " ")
	s = spaceBeforePunctRegex.ReplaceAllString(s, "$1")
	return strings.TrimSpace(s)
}
