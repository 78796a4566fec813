// Package parsing turns the text of individual resume sections into structured entries.
package parsing

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-parser/internal/segment"
	"github.com/jonathan/resume-parser/internal/types"
)

var (
	emailRegex = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

	// phoneCascade: parenthesized area code, plain hyphenated, international prefix
	phoneCascade = cascade{
		{name: "parenthesized", pattern: regexp.MustCompile(`(?:\+\d{1,3}[-.\s]?)?\(\d{3}\)[-.\s]?\d{3}[-.\s]?\d{4}\b`)},
		{name: "plain", pattern: regexp.MustCompile(`(?:\+\d{1,3}[-.\s]?)?\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`)},
		{name: "international", pattern: regexp.MustCompile(`\+\d{1,3}[-.\s]?\(?\d{1,4}\)?(?:[-.\s]?\d{2,4}){2,4}\b`)},
	}

	// githubCascade and linkedinCascade prefer full URLs over bare domain forms
	githubCascade = cascade{
		{name: "url", pattern: regexp.MustCompile(`(?i)https?://(?:www\.)?github\.com/[^\s|,]+`)},
		{name: "bare", pattern: regexp.MustCompile(`(?i)\b(?:www\.)?github\.com/[^\s|,]+`)},
	}
	linkedinCascade = cascade{
		{name: "url", pattern: regexp.MustCompile(`(?i)https?://(?:www\.)?linkedin\.com/in/[^\s|,]+`)},
		{name: "bare", pattern: regexp.MustCompile(`(?i)\b(?:www\.)?linkedin\.com/in/[^\s|,]+`)},
	}

	secureURLRegex = regexp.MustCompile(`(?i)https://[^\s|,]+`)
	anyURLRegex    = regexp.MustCompile(`(?i)https?://[^\s|,]+`)
	schemeRegex    = regexp.MustCompile(`(?i)^https?://`)

	// contactLocationCascade: "City, ST" with a known region code, then a work-mode keyword
	contactLocationCascade = cascade{
		{
			name:    "city-region",
			pattern: regexp.MustCompile(`\b([A-Z][a-zA-Z.]+(?:[ -][A-Z][a-zA-Z.]+)*),\s*([A-Z]{2})\b`),
			extract: func(m []string) (string, bool) {
				if !regionCodes[m[2]] {
					return "", false
				}
				return m[1] + ", " + m[2], true
			},
		},
		{
			name:    "work-mode",
			pattern: regexp.MustCompile(`(?i)\b(remote|hybrid)\b`),
			extract: func(m []string) (string, bool) {
				return strings.ToUpper(m[1][:1]) + strings.ToLower(m[1][1:]), true
			},
		},
	}
)

// regionCodes are the two-letter codes accepted as a contact location region
var regionCodes = map[string]bool{
	"AL": true, "AK": true, "AZ": true, "AR": true, "CA": true, "CO": true, "CT": true, "DE": true,
	"DC": true, "FL": true, "GA": true, "HI": true, "ID": true, "IL": true, "IN": true, "IA": true,
	"KS": true, "KY": true, "LA": true, "ME": true, "MD": true, "MA": true, "MI": true, "MN": true,
	"MS": true, "MO": true, "MT": true, "NE": true, "NV": true, "NH": true, "NJ": true, "NM": true,
	"NY": true, "NC": true, "ND": true, "OH": true, "OK": true, "OR": true, "PA": true, "RI": true,
	"SC": true, "SD": true, "TN": true, "TX": true, "UT": true, "VT": true, "VA": true, "WA": true,
	"WV": true, "WI": true, "WY": true,
	"ON": true, "QC": true, "BC": true, "AB": true,
}

// ParseContact extracts contact details from the full resume text.
// URLs found in the projects or experience sections never become the portfolio link.
func ParseContact(fullText string, sections segment.Sections) types.Contact {
	var c types.Contact

	c.Email = strPtr(emailRegex.FindString(fullText))

	if phone, ok := phoneCascade.first(fullText); ok {
		c.Phone = strPtr(phone)
	}
	if gh, ok := githubCascade.first(fullText); ok {
		c.GitHub = strPtr(withScheme(trimURL(gh)))
	}
	if li, ok := linkedinCascade.first(fullText); ok {
		c.LinkedIn = strPtr(withScheme(trimURL(li)))
	}

	c.Portfolio = findPortfolio(fullText, excludedURLs(sections))
	c.Location = findContactLocation(fullText, sections)

	return c
}

// excludedURLs collects every URL appearing in the projects and experience sections
func excludedURLs(sections segment.Sections) map[string]bool {
	excluded := make(map[string]bool)
	for _, name := range []string{segment.Projects, segment.Experience} {
		for _, u := range anyURLRegex.FindAllString(sections.Get(name), -1) {
			excluded[trimURL(u)] = true
		}
	}
	return excluded
}

func findPortfolio(fullText string, excluded map[string]bool) *string {
	for _, u := range secureURLRegex.FindAllString(fullText, -1) {
		u = trimURL(u)
		lower := strings.ToLower(u)
		if strings.Contains(lower, "github") || strings.Contains(lower, "linkedin") {
			continue
		}
		if excluded[u] {
			continue
		}
		return strPtr(u)
	}
	return nil
}

// findContactLocation looks at the lines above the first section header, then the contact section
func findContactLocation(fullText string, sections segment.Sections) *string {
	candidates := []string{headerBlock(fullText), sections.Get(segment.Contact)}
	for _, block := range candidates {
		for _, line := range nonEmptyLines(block) {
			if loc, ok := contactLocationCascade.first(line); ok {
				return strPtr(loc)
			}
		}
	}
	return nil
}

// headerBlock returns the text before the first section header, capped at a few lines
func headerBlock(fullText string) string {
	const maxHeaderLines = 6
	block := fullText
	if headers := segment.FindHeaders(fullText); len(headers) > 0 {
		block = fullText[:headers[0].Start]
	}
	lines := nonEmptyLines(block)
	if len(lines) > maxHeaderLines {
		lines = lines[:maxHeaderLines]
	}
	return strings.Join(lines, "\n")
}

// trimURL drops trailing punctuation picked up from surrounding prose
func trimURL(u string) string {
	return strings.TrimRight(u, ".;:)]")
}

func withScheme(u string) string {
	if schemeRegex.MatchString(u) {
		return u
	}
	return "https://" + u
}
