// Package skills holds the technology keyword lexicon and skill name normalization.
package skills

import (
	_ "embed"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var lexiconYAML []byte

// lexiconEntry is one keyword as written in lexicon.yaml
type lexiconEntry struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

// term is a compiled lexicon keyword
type term struct {
	name    string
	pattern *regexp.Regexp
}

// Vocabulary is a read-only keyword index. A nil *Vocabulary detects nothing.
type Vocabulary struct {
	terms []term
}

// Lexicon returns the process-wide vocabulary, building it on first use.
// It returns nil when the embedded dictionary cannot be loaded.
var Lexicon = sync.OnceValue(func() *Vocabulary {
	v, err := LoadVocabulary(lexiconYAML)
	if err != nil {
		slog.Warn("skill lexicon unavailable", "error", err)
		return nil
	}
	return v
})

// LoadVocabulary builds a vocabulary from a YAML document mapping category to entries
func LoadVocabulary(data []byte) (*Vocabulary, error) {
	var raw map[string][]lexiconEntry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon: %w", err)
	}

	categories := make([]string, 0, len(raw))
	for category := range raw {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	v := &Vocabulary{}
	for _, category := range categories {
		for _, e := range raw[category] {
			name := NormalizeSkillName(e.Name)
			if name == "" {
				return nil, fmt.Errorf("lexicon category %q has an entry without a name", category)
			}
			keywords := append([]string{name}, e.Aliases...)
			keywords = append(keywords, aliasesFor(name)...)
			v.terms = append(v.terms, term{name: name, pattern: keywordPattern(keywords)})
		}
	}
	return v, nil
}

// keywordPattern matches any keyword as a whole token. Symbols such as "+" and "#"
// count as part of the token so "C" never matches inside "C++".
func keywordPattern(keywords []string) *regexp.Regexp {
	quoted := make([]string, len(keywords))
	for i, k := range keywords {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(k))
	}
	sort.Slice(quoted, func(i, j int) bool { return len(quoted[i]) > len(quoted[j]) })
	return regexp.MustCompile(`(?i)(?:^|[^\w+#.])(` + strings.Join(quoted, "|") + `)(?:$|[^\w+#]|\.(?:\s|$))`)
}

// Detect returns the canonical names of lexicon keywords found in text,
// ordered by first appearance
func (v *Vocabulary) Detect(text string) []string {
	if v == nil || text == "" {
		return nil
	}

	type hit struct {
		name string
		at   int
	}
	var hits []hit
	for _, t := range v.terms {
		if loc := t.pattern.FindStringSubmatchIndex(text); loc != nil {
			hits = append(hits, hit{name: t.name, at: loc[2]})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].at < hits[j].at })

	names := make([]string, 0, len(hits))
	for _, h := range hits {
		names = append(names, h.name)
	}
	return names
}
