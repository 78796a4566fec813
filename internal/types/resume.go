// Package types provides type definitions for structured data used throughout the resume-parser system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// ParseResult is the structured profile extracted from one resume document.
// Slices are never nil so the JSON form always carries every key.
type ParseResult struct {
	ContactInfo Contact           `json:"contact_info"`
	Education   []EducationEntry  `json:"education"`
	Experiences []ExperienceEntry `json:"experiences"`
	Skills      []Skill           `json:"skills"`
	Projects    []ProjectEntry    `json:"projects"`
	Summary     *string           `json:"summary"`
	Warnings    []string          `json:"warnings"`
}

// Contact holds the candidate's contact details
type Contact struct {
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	GitHub    *string `json:"github"`
	LinkedIn  *string `json:"linkedin"`
	Portfolio *string `json:"portfolio"`
	Location  *string `json:"location"`
}

// EducationEntry represents a single degree or school attended.
// When Current is true EndDate is nil.
type EducationEntry struct {
	School      *string           `json:"school"`
	Degree      *string           `json:"degree"`
	Discipline  *string           `json:"discipline"`
	Minor       *string           `json:"minor"`
	StartDate   *string           `json:"startDate"` // YYYY-MM
	EndDate     *string           `json:"endDate"`   // YYYY-MM
	Current     bool              `json:"current"`
	GPA         *string           `json:"gpa"`
	Location    *string           `json:"location"`
	Subsections map[string]string `json:"subsections"` // honors, clubs, coursework, free-form labels
}

// ExperienceEntry represents one job, in source order
type ExperienceEntry struct {
	Title       *string  `json:"title"`
	Company     *string  `json:"company"`
	Description *string  `json:"description"` // "• a\n• b" or a plain paragraph
	StartDate   *string  `json:"startDate"`
	EndDate     *string  `json:"endDate"`
	Current     bool     `json:"current"`
	Location    *string  `json:"location"`
	Skills      []string `json:"skills"`
}

// ProjectEntry represents a project. Title is kept verbatim, dashes included.
type ProjectEntry struct {
	Title       string       `json:"title"`
	Description *Description `json:"description"`
	TechStack   []string     `json:"techStack"`
	URL         *string      `json:"url"`
}

// Skill is a single skill token with an optional category label
type Skill struct {
	Name     string  `json:"name"`
	Category *string `json:"category"`
}

// NewParseResult returns a result with every collection initialised to empty
func NewParseResult() *ParseResult {
	return &ParseResult{
		Education:   []EducationEntry{},
		Experiences: []ExperienceEntry{},
		Skills:      []Skill{},
		Projects:    []ProjectEntry{},
		Warnings:    []string{},
	}
}

// AddWarning appends a formatted warning to the result
func (r *ParseResult) AddWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Counts returns the number of entries per field, keyed by JSON field name
func (r *ParseResult) Counts() map[string]int {
	return map[string]int{
		"education":   len(r.Education),
		"experiences": len(r.Experiences),
		"skills":      len(r.Skills),
		"projects":    len(r.Projects),
		"warnings":    len(r.Warnings),
	}
}
