// Package normalize applies the minimal, format-preserving cleanup run on extracted resume text.
//
// Only two rewrites happen here: line-leading bullet glyphs are canonicalised
// and long runs of blank lines are collapsed. Casing, hyphenation and
// inter-word spacing are never touched.
package normalize

import (
	"regexp"
)

// Bullet is the canonical bullet marker (glyph plus one space)
const Bullet = "• "

// BulletGlyphs is the fixed set of glyphs recognised as bullets at the start of a line
const BulletGlyphs = "-*•∙▪▫"

var (
	// leadingBulletRegex matches optional indentation, one bullet glyph and any following spaces
	leadingBulletRegex = regexp.MustCompile(`(?m)^[ \t]*[-*•∙▪▫][ \t]*`)
	// excessiveNewlinesRegex matches three or more consecutive newlines
	excessiveNewlinesRegex = regexp.MustCompile(`\n{3,}`)
)

// Normalize canonicalises line-leading bullets to Bullet and collapses 3+ newlines to two.
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = leadingBulletRegex.ReplaceAllString(text, Bullet)
	return excessiveNewlinesRegex.ReplaceAllString(text, "\n\n")
}
