package extract

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

const (
	// lineBreakDelta is the vertical distance (PDF units) beyond which a token starts a new line
	lineBreakDelta = 5.0
	// baselineTolerance is the vertical drift allowed between glyphs of one word
	baselineTolerance = 1.0
	// minWordGap is the smallest horizontal gap treated as a word break
	minWordGap = 1.0
)

// glyph is one positioned text run reported by the PDF reader
type glyph struct {
	X, Y     float64
	W        float64
	FontSize float64
	S        string
}

// word is a run of glyphs sharing a baseline with no visible gap
type word struct {
	X, Y float64
	EndX float64
	Text string
}

func (e *Extractor) extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		e.logger.Warn("pdf reader failed, trying repair reader", "error", err)
		text, repairErr := extractPDFRepair(data)
		if repairErr != nil {
			return "", &ExtractionError{Format: FormatPDF, Message: "cannot open document", Cause: errors.Join(err, repairErr)}
		}
		return text, nil
	}

	pages := make([]string, 0, reader.NumPage())
	for pageNr := 1; pageNr <= reader.NumPage(); pageNr++ {
		page := reader.Page(pageNr)
		if page.V.IsNull() {
			continue
		}

		text := strings.Join(layoutLines(pageWords(page)), "\n")
		if strings.TrimSpace(text) == "" {
			plain, err := pagePlainText(page)
			if err != nil {
				e.logger.Debug("plain text fallback failed", "page", pageNr, "error", err)
			}
			text = plain
		}
		if strings.TrimSpace(text) != "" {
			pages = append(pages, strings.TrimSpace(text))
		}
	}

	if len(pages) == 0 {
		return "", &ExtractionError{Format: FormatPDF, Message: "no text found on any page"}
	}
	return strings.Join(pages, "\n\n"), nil
}

// pageWords reads positioned glyphs for a page and groups them into words.
// The reader panics on some malformed content streams; that is treated as an empty page.
func pageWords(page pdf.Page) (words []word) {
	defer func() {
		if r := recover(); r != nil {
			words = nil
		}
	}()

	content := page.Content()
	glyphs := make([]glyph, 0, len(content.Text))
	for _, t := range content.Text {
		glyphs = append(glyphs, glyph{X: t.X, Y: t.Y, W: t.W, FontSize: t.FontSize, S: t.S})
	}
	return wordsFromGlyphs(glyphs)
}

// pagePlainText is the whole-page fallback used when no positioned words are found
func pagePlainText(page pdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("plain text extraction panicked: %v", r)
		}
	}()
	return page.GetPlainText(nil)
}

// wordsFromGlyphs merges glyphs in content-stream order into words.
// A word ends at whitespace, a baseline change, a backwards jump or a horizontal gap.
func wordsFromGlyphs(glyphs []glyph) []word {
	var (
		words   []word
		current *word
		lastEnd float64
		lastY   float64
	)

	flush := func() {
		if current != nil && strings.TrimSpace(current.Text) != "" {
			current.Text = strings.TrimSpace(current.Text)
			words = append(words, *current)
		}
		current = nil
	}

	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		if strings.TrimFunc(g.S, unicode.IsSpace) == "" {
			flush()
			continue
		}

		gap := math.Max(minWordGap, g.FontSize*0.15)
		if current != nil {
			sameLine := math.Abs(g.Y-lastY) <= baselineTolerance
			contiguous := g.X >= lastEnd-gap && g.X-lastEnd <= gap
			if !sameLine || !contiguous {
				flush()
			}
		}

		if current == nil {
			current = &word{X: g.X, Y: g.Y}
		}
		current.Text += g.S
		current.EndX = g.X + g.W
		lastEnd = current.EndX
		lastY = g.Y

		// multi-character runs may carry their own spaces
		if strings.HasSuffix(g.S, " ") {
			flush()
		}
	}
	flush()
	return words
}

// layoutLines orders words top-to-bottom then left-to-right and groups them into lines.
// A new line starts whenever the vertical delta from the previous word exceeds lineBreakDelta.
func layoutLines(words []word) []string {
	if len(words) == 0 {
		return nil
	}

	sorted := make([]word, len(words))
	copy(sorted, words)
	// PDF y grows upwards
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var (
		lines   []string
		current []word
		prevY   = sorted[0].Y
	)
	emit := func() {
		if len(current) == 0 {
			return
		}
		sort.SliceStable(current, func(i, j int) bool { return current[i].X < current[j].X })
		parts := make([]string, len(current))
		for i, w := range current {
			parts[i] = w.Text
		}
		lines = append(lines, strings.Join(parts, " "))
		current = current[:0]
	}

	for _, w := range sorted {
		if math.Abs(prevY-w.Y) > lineBreakDelta {
			emit()
		}
		current = append(current, w)
		prevY = w.Y
	}
	emit()
	return lines
}
