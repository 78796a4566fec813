package parsing

import (
	"strings"
)

// ParseSummary flattens the summary section into a single paragraph with bullets removed
func ParseSummary(sectionText string) *string {
	text := bulletMarkerLineRegex.ReplaceAllString(strings.TrimSpace(sectionText), "")

	lines := nonEmptyLines(text)
	for i, line := range lines {
		lines[i] = multiSpaceRegex.ReplaceAllString(line, " ")
	}
	return strPtr(strings.Join(lines, " "))
}
