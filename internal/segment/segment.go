// Package segment splits normalized resume text into named sections by header-keyword detection.
package segment

import (
	"regexp"
	"sort"
	"strings"
)

// Section names
const (
	Contact    = "contact"
	Education  = "education"
	Experience = "experience"
	Skills     = "skills"
	Projects   = "projects"
	Summary    = "summary"
)

// headerSynonyms maps each section to the alternation of header keywords that open it
var headerSynonyms = []struct {
	name     string
	synonyms string
}{
	{Contact, `contact|contact information|contact info|personal information|personal info`},
	{Education, `education|academic|qualifications|degrees?|educational background`},
	{Experience, `experience|employment|work history|professional experience|work experience|employment history|career`},
	{Skills, `skills|technical skills|core competencies|proficienc(?:y|ies)|competencies|expertise`},
	{Projects, `projects|personal projects|key projects|project experience|portfolio`},
	{Summary, `summary|professional summary|profile|objective|career objective|executive summary|about`},
}

// headerPattern is a whole header line: optional indentation, optional bullet, keyword, optional colon
func headerPattern(synonyms string) string {
	return `(?im)^[ \t]*(?:[•\-*][ \t]*)?(?:` + synonyms + `)[ \t]*:?[ \t]*$`
}

var (
	// headerRegexes holds one header matcher per section, in table order
	headerRegexes = compileHeaders("")
	// scrubRegexes also consume the line terminator so scrubbed lines leave no gap
	scrubRegexes = compileHeaders(`\n?`)
)

func compileHeaders(suffix string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(headerSynonyms))
	for i, h := range headerSynonyms {
		out[i] = regexp.MustCompile(headerPattern(h.synonyms) + suffix)
	}
	return out
}

// Header is a detected section header. Start is the offset of the header line,
// End the offset immediately after it.
type Header struct {
	Name  string
	Start int
	End   int
}

// Sections maps section names to their trimmed text. Absent sections have no key.
type Sections map[string]string

// Get returns the text of a section, or "" when the section was not found
func (s Sections) Get(name string) string {
	return s[name]
}

// Names returns the section names present, sorted alphabetically
func (s Sections) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SectionNames returns every section name the segmenter knows, in table order
func SectionNames() []string {
	names := make([]string, len(headerSynonyms))
	for i, h := range headerSynonyms {
		names[i] = h.name
	}
	return names
}

// FindHeaders returns the first header occurrence of each section, ordered by position
func FindHeaders(text string) []Header {
	var headers []Header
	for i, re := range headerRegexes {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			headers = append(headers, Header{Name: headerSynonyms[i].name, Start: loc[0], End: loc[1]})
		}
	}

	sort.SliceStable(headers, func(i, j int) bool { return headers[i].Start < headers[j].Start })

	seen := make(map[string]bool, len(headerSynonyms))
	unique := headers[:0]
	for _, h := range headers {
		if seen[h.Name] {
			continue
		}
		seen[h.Name] = true
		unique = append(unique, h)
	}
	return unique
}

// Segment splits text into sections. A section runs from the end of its header line
// to the start of the next kept header (or end of text). Header lines of other
// sections are scrubbed from the content; empty sections are omitted.
func Segment(text string) Sections {
	sections := make(Sections)
	headers := FindHeaders(text)

	for i, h := range headers {
		end := len(text)
		if i+1 < len(headers) {
			end = headers[i+1].Start
		}
		if h.End > end {
			continue
		}

		content := scrubOtherHeaders(strings.TrimSpace(text[h.End:end]), h.Name)
		if content != "" {
			sections[h.Name] = content
		}
	}
	return sections
}

// scrubOtherHeaders removes header lines that belong to any section other than keep
func scrubOtherHeaders(content, keep string) string {
	for i, re := range scrubRegexes {
		if headerSynonyms[i].name == keep {
			continue
		}
		content = re.ReplaceAllString(content, "")
	}
	return strings.TrimSpace(content)
}
