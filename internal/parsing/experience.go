package parsing

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-parser/internal/skills"
	"github.com/jonathan/resume-parser/internal/types"
)

const minExperienceEntryLen = 20

var (
	workModeRegex         = regexp.MustCompile(`(?i)\b(remote|on-site|onsite|hybrid)\b`)
	workModeLineRegex     = regexp.MustCompile(`(?i)^(?:remote|on-site|onsite|hybrid)$`)
	workKeywordLineRegex  = regexp.MustCompile(`(?i)^(?:remote|on-site|onsite|hybrid|full-time|part-time|contract|internship|freelance|temporary)$`)
	trailingWorkTypeRegex = regexp.MustCompile(`(?i)\s+(?:remote|on-site|onsite|hybrid|full-time|part-time|contract|internship|freelance|temporary)\s*$`)

	trailingPipeRegex     = regexp.MustCompile(`\s*\|\s*$`)
	lineRegionRegex       = regexp.MustCompile(`,\s*([A-Z]{2})\s*$`)
	leadingYearRegex      = regexp.MustCompile(`^\d{4}`)
	nextEntryRegex        = regexp.MustCompile(`^[A-Z][a-z]+.*\d{4}`)
	leadingBulletStrip    = regexp.MustCompile(`^[ \t]*[-*•∙▪▫][ \t]*`)
	bulletMarkerLineRegex = regexp.MustCompile(`(?m)^[ \t]*[-*•∙▪▫][ \t]*`)
)

// cityPrefixes are first words that make a two-word city name
var cityPrefixes = map[string]bool{
	"Santa": true, "San": true, "New": true, "Los": true, "Las": true, "Fort": true,
	"Saint": true, "St": true, "Mount": true, "Lake": true, "Port": true,
	"East": true, "West": true, "North": true, "South": true,
}

// ParseExperience splits the experience section into jobs and extracts title,
// company, location, dates, and description for each. Entries without a title are dropped.
func ParseExperience(sectionText string) []types.ExperienceEntry {
	entries := []types.ExperienceEntry{}
	lines := nonEmptyLines(sectionText)
	if len(lines) == 0 {
		return entries
	}

	for _, block := range splitExperienceBlocks(lines) {
		if len(strings.Join(block, "\n")) < minExperienceEntryLen {
			continue
		}
		if entry, ok := parseExperienceEntry(block); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

// splitExperienceBlocks starts a new entry at a dated, non-bullet line whose
// predecessor is either a dated non-bullet line or a bullet
func splitExperienceBlocks(lines []string) [][]string {
	starts := []int{0}
	for i := 1; i < len(lines); i++ {
		if !hasDateRange(lines[i]) || isBulletLine(lines[i]) {
			continue
		}
		prev := lines[i-1]
		prevBullet := isBulletLine(prev)
		if (hasDateRange(prev) && !prevBullet) || prevBullet {
			starts = append(starts, i)
		}
	}

	blocks := make([][]string, 0, len(starts))
	for i, start := range starts {
		end := len(lines)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		blocks = append(blocks, lines[start:end])
	}
	return blocks
}

func parseExperienceEntry(lines []string) (types.ExperienceEntry, bool) {
	var entry types.ExperienceEntry

	dateIdx := -1
	for i, line := range lines {
		if dates, ok := parseDateRange(line); ok {
			entry.StartDate = dates.Start
			entry.EndDate = dates.End
			entry.Current = dates.Current
			dateIdx = i
			break
		}
	}

	title := trailingPipeRegex.ReplaceAllString(stripDateRanges(lines[0]), "")
	entry.Title = strPtr(title)
	if entry.Title == nil {
		return entry, false
	}

	if len(lines) > 1 {
		company, location := parseCompanyLine(lines[1])
		entry.Company = strPtr(company)
		entry.Location = strPtr(location)
	}

	if entry.Location == nil {
		for _, line := range lines {
			if workModeLineRegex.MatchString(line) {
				entry.Location = strPtr(line)
				break
			}
		}
	}

	descStart := 2
	if dateIdx+1 > descStart {
		descStart = dateIdx + 1
	}
	var descLines []string
	for i := descStart; i < len(lines); i++ {
		line := lines[i]
		if nextEntryRegex.MatchString(line) {
			break
		}
		if workKeywordLineRegex.MatchString(line) {
			continue
		}
		descLines = append(descLines, line)
	}
	entry.Description = buildExperienceDescription(descLines)

	if detected := skills.Lexicon().Detect(strings.Join(lines, "\n")); len(detected) > 0 {
		entry.Skills = detected
	}

	return entry, true
}

// parseCompanyLine splits "Company | Remote", "Company, City, ST" and similar forms
func parseCompanyLine(line string) (company, location string) {
	line = stripDateRanges(line)

	company = line
	if strings.Contains(line, "|") {
		parts := strings.Split(line, "|")
		company = strings.TrimSpace(parts[0])
		for _, part := range parts[1:] {
			part = strings.TrimSpace(part)
			if workModeLineRegex.MatchString(part) {
				location = part
				break
			}
		}
	}

	if location == "" {
		if m := lineRegionRegex.FindStringSubmatchIndex(company); m != nil {
			company, location = splitCityRegion(company, company[m[2]:m[3]], m[0])
		}
	}

	if location == "" {
		if m := workModeRegex.FindStringSubmatch(company); m != nil {
			location = m[1]
			company = workModeRegex.ReplaceAllString(company, " ")
		}
	}

	company = trailingWorkTypeRegex.ReplaceAllString(strings.TrimSpace(company), "")
	company = strings.TrimSpace(multiSpaceRegex.ReplaceAllString(company, " "))
	if leadingYearRegex.MatchString(company) {
		company = ""
	}
	return company, location
}

// splitCityRegion pulls a one or two word city off the end of the company text.
// commaAt is the offset of the ", ST" suffix.
func splitCityRegion(text, region string, commaAt int) (company, location string) {
	words := strings.Fields(text[:commaAt])
	if len(words) == 0 {
		return text, ""
	}

	var city []string
	switch {
	case len(words) >= 2 && cityPrefixes[words[len(words)-2]]:
		city = words[len(words)-2:]
	case len(words) >= 2 && len(words[len(words)-2]) <= 3 && isCapitalized(words[len(words)-2]) && isCapitalized(words[len(words)-1]):
		city = words[len(words)-2:]
	default:
		city = words[len(words)-1:]
	}

	rest := words[:len(words)-len(city)]
	company = strings.TrimRight(strings.Join(rest, " "), ",")
	return company, strings.Join(city, " ") + ", " + region
}

func isCapitalized(word string) bool {
	return word != "" && word[0] >= 'A' && word[0] <= 'Z'
}

// isBulletLine reports whether the line starts with any bullet glyph, normalized or not
func isBulletLine(line string) bool {
	return leadingBulletStrip.MatchString(line)
}

// buildExperienceDescription joins continuation lines into their bullet and renders
// "preamble\n• a\n• b". Without bullets the text is returned as written.
func buildExperienceDescription(lines []string) *string {
	if len(lines) == 0 {
		return nil
	}
	text := bulletMarkerLineRegex.ReplaceAllString(strings.Join(lines, "\n"), "• ")

	var preamble, bullets []string
	var current []string
	flush := func() {
		if len(current) == 0 {
			return
		}
		item := cleanItem(leadingBulletStrip.ReplaceAllString(strings.Join(current, " "), ""))
		if item != "" {
			bullets = append(bullets, item)
		}
		current = nil
	}

	for _, line := range nonEmptyLines(text) {
		switch {
		case strings.HasPrefix(line, "•"):
			flush()
			current = []string{line}
		case current != nil:
			current = append(current, line)
		default:
			preamble = append(preamble, line)
		}
	}
	flush()

	if len(bullets) == 0 {
		return strPtr(text)
	}

	rendered := "• " + strings.Join(bullets, "\n• ")
	if len(preamble) > 0 {
		rendered = cleanItem(strings.Join(preamble, " ")) + "\n" + rendered
	}
	return strPtr(rendered)
}
