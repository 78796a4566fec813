// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-parser/internal/segment"
	"github.com/jonathan/resume-parser/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, ending in "..." when cut
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

// dateRange renders "2020-01 – Present" style ranges
func dateRange(start, end *string, current bool) string {
	if start == nil && end == nil && !current {
		return ""
	}
	to := deref(end)
	if current {
		to = "Present"
	}
	return fmt.Sprintf("%s – %s", deref(start), to)
}

// moreLine reports how many items were left out of a list
func moreLine(sb *strings.Builder, total, shown int, noun string) {
	if total > shown {
		fmt.Fprintf(sb, "... and %d more %s\n", total-shown, noun)
	}
}

// PrintParseResult outputs every section of a parse result.
func (p *Printer) PrintParseResult(filename string, result *types.ParseResult) {
	if result == nil {
		return
	}
	p.printSummaryBox(filename, result)
	p.PrintContact(result.ContactInfo)
	p.PrintExperiences(result.Experiences)
	p.PrintEducation(result.Education)
	p.PrintSkills(result.Skills)
	p.PrintProjects(result.Projects)
	p.PrintWarnings(result.Warnings)
}

func (p *Printer) printSummaryBox(filename string, result *types.ParseResult) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "File:        %s\n", filename)
	fmt.Fprintf(&sb, "Experiences: %d\n", len(result.Experiences))
	fmt.Fprintf(&sb, "Education:   %d\n", len(result.Education))
	fmt.Fprintf(&sb, "Skills:      %d\n", len(result.Skills))
	fmt.Fprintf(&sb, "Projects:    %d", len(result.Projects))
	if result.Summary != nil {
		fmt.Fprintf(&sb, "\n\n%s", *result.Summary)
	}
	p.printBox("PARSE RESULT", sb.String())
}

// PrintContact outputs the contact fields that were found.
func (p *Printer) PrintContact(c types.Contact) {
	rows := []struct {
		label string
		value *string
	}{
		{"Email", c.Email},
		{"Phone", c.Phone},
		{"Location", c.Location},
		{"LinkedIn", c.LinkedIn},
		{"GitHub", c.GitHub},
		{"Portfolio", c.Portfolio},
	}

	var sb strings.Builder
	for _, row := range rows {
		if row.value != nil {
			fmt.Fprintf(&sb, "%-10s %s\n", row.label+":", *row.value)
		}
	}
	if sb.Len() == 0 {
		return
	}
	p.printBox("CONTACT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintExperiences outputs the first few experience entries.
func (p *Printer) PrintExperiences(entries []types.ExperienceEntry) {
	if len(entries) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(entries), maxItemsToShow)
	for i := 0; i < count; i++ {
		e := entries[i]
		fmt.Fprintf(&sb, "%s @ %s\n", deref(e.Title), deref(e.Company))
		if dates := dateRange(e.StartDate, e.EndDate, e.Current); dates != "" {
			fmt.Fprintf(&sb, "    %s\n", dates)
		}
		if e.Location != nil {
			fmt.Fprintf(&sb, "    %s\n", *e.Location)
		}
		if len(e.Skills) > 0 {
			fmt.Fprintf(&sb, "    Skills: %s\n", strings.Join(e.Skills, ", "))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	moreLine(&sb, len(entries), count, "experiences")

	p.printBox("EXPERIENCE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEducation outputs the education entries.
func (p *Printer) PrintEducation(entries []types.EducationEntry) {
	if len(entries) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(entries), maxItemsToShow)
	for i := 0; i < count; i++ {
		e := entries[i]
		sb.WriteString(deref(e.School) + "\n")
		degree := deref(e.Degree)
		if e.Discipline != nil {
			degree += ", " + *e.Discipline
		}
		fmt.Fprintf(&sb, "    %s\n", degree)
		if dates := dateRange(e.StartDate, e.EndDate, e.Current); dates != "" {
			fmt.Fprintf(&sb, "    %s\n", dates)
		}
		if e.GPA != nil {
			fmt.Fprintf(&sb, "    GPA: %s\n", *e.GPA)
		}
	}
	moreLine(&sb, len(entries), count, "schools")

	p.printBox("EDUCATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSkills outputs skills grouped by category, in first-seen order.
func (p *Printer) PrintSkills(skills []types.Skill) {
	if len(skills) == 0 {
		return
	}

	var order []string
	groups := make(map[string][]string)
	for _, s := range skills {
		category := "Other"
		if s.Category != nil {
			category = *s.Category
		}
		if _, ok := groups[category]; !ok {
			order = append(order, category)
		}
		groups[category] = append(groups[category], s.Name)
	}

	var sb strings.Builder
	for _, category := range order {
		fmt.Fprintf(&sb, "%s: %s\n", category, strings.Join(groups[category], ", "))
	}

	p.printBox(fmt.Sprintf("SKILLS (%d)", len(skills)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProjects outputs the first few projects.
func (p *Printer) PrintProjects(projects []types.ProjectEntry) {
	if len(projects) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(projects), maxItemsToShow)
	for i := 0; i < count; i++ {
		proj := projects[i]
		sb.WriteString(proj.Title + "\n")
		if len(proj.TechStack) > 0 {
			fmt.Fprintf(&sb, "    [%s]\n", strings.Join(proj.TechStack, ", "))
		}
		if proj.URL != nil {
			fmt.Fprintf(&sb, "    %s\n", *proj.URL)
		}
	}
	moreLine(&sb, len(projects), count, "projects")

	p.printBox("PROJECTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintWarnings outputs the parse warnings.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintWarnings(warnings []string) {
	if len(warnings) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO WARNINGS")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	for i, w := range warnings {
		fmt.Fprintf(&sb, "⚠ %s", w)
		if i < len(warnings)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("WARNINGS", sb.String())
}

// PrintSections outputs each detected section with its size and first line, in segmenter table order.
func (p *Printer) PrintSections(sections segment.Sections) {
	if len(sections) == 0 {
		p.printBox("SECTIONS", "No section headers found")
		return
	}

	var sb strings.Builder
	for _, name := range segment.SectionNames() {
		content, ok := sections[name]
		if !ok {
			continue
		}
		first, _, _ := strings.Cut(content, "\n")
		fmt.Fprintf(&sb, "%-12s %5d chars  %s\n", name, len(content), first)
	}
	p.printBox("SECTIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// BatchItem is the outcome of parsing one file in a batch
type BatchItem struct {
	File   string
	Result *types.ParseResult
	Err    error
}

// PrintBatchSummary outputs one row per file with field counts, followed by totals.
func (p *Printer) PrintBatchSummary(items []BatchItem) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-24s %4s %4s %4s %4s %4s\n", "FILE", "EXP", "EDU", "SKL", "PRJ", "WRN")

	failed := 0
	for _, item := range items {
		name := truncate(item.File, 24)
		if item.Err != nil || item.Result == nil {
			failed++
			fmt.Fprintf(&sb, "%-24s ✗ failed\n", name)
			continue
		}
		r := item.Result
		fmt.Fprintf(&sb, "%-24s %4d %4d %4d %4d %4d\n", name,
			len(r.Experiences), len(r.Education), len(r.Skills), len(r.Projects), len(r.Warnings))
	}
	fmt.Fprintf(&sb, "\n%d parsed, %d failed", len(items)-failed, failed)

	p.printBox("BATCH SUMMARY", sb.String())
}
