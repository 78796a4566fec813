package parsing

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-parser/internal/types"
)

const minEducationEntryLen = 10

var (
	blankLineRegex   = regexp.MustCompile(`\n\s*\n`)
	institutionRegex = regexp.MustCompile(`(?i)\b(?:university|college|institute|school|academy)\b`)

	// degreeStartRegex rejects school candidates that are really degree lines
	degreeStartRegex = regexp.MustCompile(`(?i)^(?:bachelor|master|ph\.?\s?d|doctor|associate|degree|b\.?\s?s\.?\b|b\.?\s?a\.?\b|m\.?\s?s\.?\b|m\.?\s?a\.?\b|mba\b)`)

	parenRegex          = regexp.MustCompile(`\s*\([^)]*\)`)
	trailingCityRegex   = regexp.MustCompile(`[\s,]+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?),\s*([A-Z]{2})\s*$`)
	trailingRegionRegex = regexp.MustCompile(`(?:,\s*|\s+)[A-Z]{2}\s*$`)
	regionTokenRegex    = regexp.MustCompile(`,\s*[A-Z]{2}\b(?:\s+\d{5})?`)

	subsectionRegex = regexp.MustCompile(`^([A-Z][A-Za-z /&]{1,40}?)\s*:\s*(.+)$`)

	// degreeCascade: bachelor, master, doctorate, associate, then abbreviations
	degreeCascade = cascade{
		{name: "bachelor", pattern: regexp.MustCompile(`(?i)\bbachelor(?:'?s)?(?:\s+degree\b|(?:\s+of)?\s+(?:applied\s+science|business\s+administration|computer\s+science|fine\s+arts|science|arts|engineering|business|technology))`), extract: normalizeDegree},
		{name: "master", pattern: regexp.MustCompile(`(?i)\bmaster(?:'?s)?(?:\s+degree\b|(?:\s+of)?\s+(?:business\s+administration|computer\s+science|fine\s+arts|public\s+health|science|arts|engineering|business))`), extract: normalizeDegree},
		{name: "mba", pattern: regexp.MustCompile(`\bMBA\b`)},
		{name: "phd", pattern: regexp.MustCompile(`(?i)\bph\.?\s?d\b\.?`)},
		{name: "doctorate", pattern: regexp.MustCompile(`(?i)\bdoctor(?:ate|\s+of\s+[a-z]+)`), extract: normalizeDegree},
		{name: "associate", pattern: regexp.MustCompile(`(?i)\bassociate(?:'?s)?(?:\s+of)?\s+(?:applied\s+science|science|arts)`), extract: normalizeDegree},
		{name: "abbreviation", pattern: regexp.MustCompile(`\b((?:B|M)\.?\s?(?:Sc|Eng|S|A|E)\.?)(?:[\s,;|]|$)`), extract: group(1)},
	}

	// disciplineCascade: "in <Field>" phrasing, then a field directly after an abbreviated degree
	disciplineCascade = cascade{
		{name: "in", pattern: regexp.MustCompile(`\b(?i:(minor\s+)?(?:(?:major|degree)\s+in|in))\s+([A-Z][A-Za-z &]*)`), extract: func(m []string) (string, bool) {
			if m[1] != "" {
				return "", false
			}
			return cleanDiscipline(m[2])
		}},
		{name: "after-abbreviation", pattern: regexp.MustCompile(`\b(?:B|M)\.?\s?(?:Sc|S|A)\.?,?\s+([A-Z][A-Za-z &]*)`), extract: func(m []string) (string, bool) {
			return cleanDiscipline(m[1])
		}},
	}

	// majorLineRegex reads a field stated on its own line when no degree phrase names one
	majorLineRegex    = regexp.MustCompile(`(?i)^(?:major|concentration|degree)\s*(?:in\b|:)\s*([A-Za-z][A-Za-z &]*)`)
	leadingMonthRegex = regexp.MustCompile(`(?i)^(?:` + monthPattern + `)\b`)

	minorRegex = regexp.MustCompile(`(?i)\bminor(?:\s+in|\s*:)\s*([A-Za-z][A-Za-z &]*)`)

	gpaCascade = cascade{
		{name: "labeled", pattern: regexp.MustCompile(`(?i)\bGPA\b\s*[:\-]?\s*(\d\.\d{1,2}(?:\s*/\s*\d(?:\.\d{1,2})?)?)`), extract: cleanGPA},
		{name: "trailing-label", pattern: regexp.MustCompile(`(?i)(\d\.\d{1,2}(?:\s*/\s*\d(?:\.\d{1,2})?)?)\s*GPA\b`), extract: cleanGPA},
	}

	trailingMonthRegex = regexp.MustCompile(`(?i)\s+(?:` + monthPattern + `)\.?\s*$`)
	withClauseRegex    = regexp.MustCompile(`(?i)\s+(?:with|and\s+minor|minor)\b.*$`)
)

// subsectionKeys maps labeled education lines to canonical subsection keys
var subsectionKeys = map[string]string{
	"honors":              "honors",
	"honors & awards":     "honors",
	"honors and awards":   "honors",
	"awards":              "honors",
	"coursework":          "coursework",
	"relevant coursework": "coursework",
	"courses":             "coursework",
	"activities":          "activities",
	"clubs":               "activities",
	"organizations":       "activities",
	"extracurriculars":    "activities",
	"leadership":          "activities",
	"thesis":              "thesis",
}

// ParseEducation splits the education section into blank-line separated entries.
// An entry is kept only when a school or a degree was recognized.
func ParseEducation(sectionText string) []types.EducationEntry {
	entries := []types.EducationEntry{}
	text := strings.TrimSpace(sectionText)
	if text == "" {
		return entries
	}

	for _, block := range blankLineRegex.Split(text, -1) {
		block = strings.TrimSpace(block)
		if len(block) < minEducationEntryLen {
			continue
		}
		if entry, ok := parseEducationEntry(block); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

func parseEducationEntry(block string) (types.EducationEntry, bool) {
	var entry types.EducationEntry
	var body []string

	for _, line := range nonEmptyLines(block) {
		if label, value, ok := labeledLine(line); ok {
			switch label {
			case "minor":
				entry.Minor = strPtr(value)
				continue
			case "gpa":
				if gpa, found := gpaCascade.first(line); found {
					entry.GPA = strPtr(gpa)
				}
				continue
			}
			if key, known := subsectionKeys[label]; known {
				if entry.Subsections == nil {
					entry.Subsections = make(map[string]string)
				}
				entry.Subsections[key] = value
				continue
			}
		}
		body = append(body, line)
	}

	school, location := findSchool(body)
	entry.School = strPtr(school)
	entry.Location = strPtr(location)

	// region codes such as ", MA" would otherwise read as degree abbreviations
	scrubbed := regionTokenRegex.ReplaceAllString(strings.Join(body, "\n"), "")

	if degree, at, ok := degreeCascade.match(scrubbed); ok {
		entry.Degree = strPtr(degree)
		entry.Discipline = strPtr(disciplineAfter(scrubbed[at:]))
	}
	if entry.Discipline == nil {
		for _, line := range strings.Split(scrubbed, "\n") {
			if m := majorLineRegex.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
				if discipline, ok := cleanDiscipline(m[1]); ok {
					entry.Discipline = strPtr(discipline)
					break
				}
			}
		}
	}
	if entry.Minor == nil {
		if m := minorRegex.FindStringSubmatch(block); m != nil {
			entry.Minor = strPtr(cutAtSeparator(m[1]))
		}
	}
	if entry.GPA == nil {
		if gpa, ok := gpaCascade.first(block); ok {
			entry.GPA = strPtr(gpa)
		}
	}

	if dates, ok := parseDateRange(block); ok {
		entry.StartDate = dates.Start
		entry.EndDate = dates.End
		entry.Current = dates.Current
	}

	return entry, entry.School != nil || entry.Degree != nil
}

// labeledLine splits "Label: value" lines, returning the lower-cased label
func labeledLine(line string) (label, value string, ok bool) {
	m := subsectionRegex.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return strings.ToLower(strings.TrimSpace(m[1])), strings.TrimSpace(m[2]), true
}

// findSchool takes the first line, or any later line naming an institution,
// whose cleaned text does not begin like a degree
func findSchool(lines []string) (school, location string) {
	for i, line := range lines {
		if i > 0 && !institutionRegex.MatchString(line) {
			continue
		}
		name, loc := cleanSchoolName(line)
		if name == "" || degreeStartRegex.MatchString(name) {
			continue
		}
		return name, loc
	}
	return "", ""
}

// cleanSchoolName strips parentheticals, dates, and trailing locations from a school line
func cleanSchoolName(line string) (name, location string) {
	if i := strings.Index(line, "|"); i >= 0 {
		line = line[:i]
	}
	name = parenRegex.ReplaceAllString(line, "")
	name = stripDateRanges(name)
	name = strings.TrimRight(strings.TrimSpace(name), ",;-–|")

	if m := trailingCityRegex.FindStringSubmatch(name); m != nil {
		location = m[1] + ", " + m[2]
		name = strings.TrimSpace(name[:len(name)-len(m[0])])
	}
	name = trailingRegionRegex.ReplaceAllString(name, "")
	name = strings.TrimRight(strings.TrimSpace(name), ",;-–|")
	return name, location
}

// disciplineAfter reads the field from the rest of the line that starts with the degree phrase
func disciplineAfter(fromDegree string) string {
	line, _, _ := strings.Cut(fromDegree, "\n")
	discipline, _ := disciplineCascade.first(stripDateRanges(line))
	return discipline
}

func normalizeDegree(m []string) (string, bool) {
	return multiSpaceRegex.ReplaceAllString(strings.TrimSpace(m[0]), " "), true
}

// cleanDiscipline trims trailing months, locations and "with honors" clauses.
// A field that starts with a month name is a date, not a discipline.
func cleanDiscipline(raw string) (string, bool) {
	field := withClauseRegex.ReplaceAllString(raw, "")
	field = trailingMonthRegex.ReplaceAllString(field, "")
	field = strings.TrimSpace(cutAtSeparator(field))
	if leadingMonthRegex.MatchString(field) {
		return "", false
	}
	return field, len(field) > 2
}

func cutAtSeparator(s string) string {
	if i := strings.IndexAny(s, ",;|"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func cleanGPA(m []string) (string, bool) {
	return strings.Join(strings.Fields(m[1]), ""), true
}
