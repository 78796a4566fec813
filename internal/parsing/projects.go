package parsing

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-parser/internal/types"
)

var (
	separatorRunRegex = regexp.MustCompile(`[,|]\s*[,|]+`)
	techSplitRegex    = regexp.MustCompile(`[,|]`)
	bulletSplitRegex  = regexp.MustCompile(`•\s+`)
	newlineRunRegex   = regexp.MustCompile(`\n+`)
	anyWhitespaceRun  = regexp.MustCompile(`\s+`)
)

// projectBuilder accumulates one project until the next title line
type projectBuilder struct {
	entry types.ProjectEntry
	desc  []string
}

// ParseProjects splits the projects section on title lines. A title line is any
// non-bullet line containing "|": the text before the first "|" is the title and
// the rest is the tech stack. Lines before the first title are ignored.
func ParseProjects(sectionText string) []types.ProjectEntry {
	projects := []types.ProjectEntry{}
	var current *projectBuilder

	flush := func() {
		if current == nil || current.entry.Title == "" {
			return
		}
		current.entry.Description = buildProjectDescription(current.desc)
		projects = append(projects, current.entry)
	}

	for _, line := range nonEmptyLines(sectionText) {
		if strings.Contains(line, "|") && !isBulletLine(line) {
			flush()
			current = newProject(line)
			continue
		}
		if current == nil {
			continue
		}

		if urls := anyURLRegex.FindAllString(line, -1); len(urls) > 0 && current.entry.URL == nil {
			current.entry.URL = strPtr(trimURL(urls[0]))
			for _, u := range urls {
				line = strings.ReplaceAll(line, u, "")
			}
			line = strings.TrimSpace(anyWhitespaceRun.ReplaceAllString(line, " "))
		}
		if line != "" {
			current.desc = append(current.desc, line)
		}
	}
	flush()

	return projects
}

func newProject(line string) *projectBuilder {
	title, tech, _ := strings.Cut(line, "|")

	p := &projectBuilder{entry: types.ProjectEntry{
		Title:     strings.TrimSpace(title),
		TechStack: []string{},
	}}

	tech = strings.TrimSpace(tech)
	if urls := anyURLRegex.FindAllString(tech, -1); len(urls) > 0 {
		p.entry.URL = strPtr(trimURL(urls[0]))
		for _, u := range urls {
			tech = strings.TrimSpace(strings.ReplaceAll(tech, u, ""))
		}
		tech = separatorRunRegex.ReplaceAllString(tech, ",")
		tech = strings.Trim(tech, " ,|")
	}

	for _, item := range techSplitRegex.Split(tech, -1) {
		item = strings.TrimSpace(item)
		if item == "" || schemeRegex.MatchString(item) {
			continue
		}
		p.entry.TechStack = append(p.entry.TechStack, item)
	}
	return p
}

// buildProjectDescription re-splits the accumulated lines on the bullet marker.
// Any bullet yields a list; otherwise the lines are kept as one paragraph.
func buildProjectDescription(lines []string) *types.Description {
	if len(lines) == 0 {
		return nil
	}
	text := bulletMarkerLineRegex.ReplaceAllString(strings.Join(lines, "\n"), "• ")

	if !strings.Contains(text, "•") {
		return types.TextDescription(strings.TrimSpace(text))
	}

	var items []string
	for _, item := range bulletSplitRegex.Split(text, -1) {
		item = cleanItem(newlineRunRegex.ReplaceAllString(item, " "))
		if item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return nil
	}
	return types.BulletDescription(items)
}
