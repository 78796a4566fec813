package parsing

import (
	"fmt"
	"regexp"
	"strings"
)

// monthNumbers maps month names and abbreviations to two-digit month numbers
var monthNumbers = map[string]string{
	"jan": "01", "january": "01",
	"feb": "02", "february": "02",
	"mar": "03", "march": "03",
	"apr": "04", "april": "04",
	"may": "05",
	"jun": "06", "june": "06",
	"jul": "07", "july": "07",
	"aug": "08", "august": "08",
	"sep": "09", "sept": "09", "september": "09",
	"oct": "10", "october": "10",
	"nov": "11", "november": "11",
	"dec": "12", "december": "12",
}

const (
	monthPattern   = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sept?(?:ember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`
	yearPattern    = `(?:19|20)\d{2}`
	rangeSep       = `\s*(?:[-–—]+|to)\s*`
	ongoingPattern = `present|current|now`
)

var (
	// monthRangeRegex: "Jan 2020 - Mar 2021", "Sept. 2019 – Present", "May 2018 - 2020"
	monthRangeRegex = regexp.MustCompile(`(?i)\b(` + monthPattern + `)\.?,?\s+(` + yearPattern + `)` + rangeSep +
		`(?:(?:(` + monthPattern + `)\.?,?\s+)?(` + yearPattern + `)|(` + ongoingPattern + `))\b`)

	// yearRangeRegex: "2018 - 2022", "2019 – Present", "2019 - Mar 2020"
	yearRangeRegex = regexp.MustCompile(`(?i)\b(` + yearPattern + `)` + rangeSep +
		`(?:(?:(` + monthPattern + `)\.?,?\s+)?(` + yearPattern + `)|(` + ongoingPattern + `))\b`)

	// anyDateRangeRegex matches either form and is used for detection and stripping
	anyDateRangeRegex = regexp.MustCompile(`(?i)(?:\b(?:` + monthPattern + `)\.?,?\s+)?\b` + yearPattern + rangeSep +
		`(?:(?:(?:` + monthPattern + `)\.?,?\s+)?` + yearPattern + `|(?:` + ongoingPattern + `))\b`)
)

// dateRange is a parsed start/end pair. Dates are YYYY-MM; Current implies End is nil.
type dateRange struct {
	Start   *string
	End     *string
	Current bool
}

// dateRule is one step of the date cascade
type dateRule struct {
	name    string
	pattern *regexp.Regexp
	parse   func(m []string) dateRange
}

// dateCascade tries month-name ranges before bare year ranges
var dateCascade = []dateRule{
	{
		name:    "month-range",
		pattern: monthRangeRegex,
		parse: func(m []string) dateRange {
			return buildRange(m[1], m[2], m[3], m[4], m[5])
		},
	},
	{
		name:    "year-range",
		pattern: yearRangeRegex,
		parse: func(m []string) dateRange {
			return buildRange("", m[1], m[2], m[3], m[4])
		},
	},
}

// parseDateRange finds the first date range in text using dateCascade
func parseDateRange(text string) (dateRange, bool) {
	for _, r := range dateCascade {
		if m := r.pattern.FindStringSubmatch(text); m != nil {
			return r.parse(m), true
		}
	}
	return dateRange{}, false
}

// hasDateRange reports whether text contains a date range of either form
func hasDateRange(text string) bool {
	return anyDateRangeRegex.MatchString(text)
}

// stripDateRanges removes every date range from text
func stripDateRanges(text string) string {
	return strings.TrimSpace(anyDateRangeRegex.ReplaceAllString(text, ""))
}

func buildRange(startMonth, startYear, endMonth, endYear, ongoing string) dateRange {
	r := dateRange{Start: strPtr(formatYearMonth(startYear, startMonth))}
	if ongoing != "" {
		r.Current = true
		return r
	}
	if endYear != "" {
		r.End = strPtr(formatYearMonth(endYear, endMonth))
	}
	return r
}

// formatYearMonth renders YYYY-MM; a missing or unknown month becomes 01
func formatYearMonth(year, month string) string {
	if year == "" {
		return ""
	}
	mm, ok := monthNumbers[strings.ToLower(strings.TrimSuffix(month, "."))]
	if !ok {
		mm = "01"
	}
	return fmt.Sprintf("%s-%s", year, mm)
}
