// Package extract converts raw resume documents (PDF, DOCX) into layout-approximating plain text.
package extract

import (
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
)

// Format identifies the extraction branch for a document
type Format string

const (
	// FormatPDF selects positional PDF extraction
	FormatPDF Format = "pdf"
	// FormatDOCX selects word-processor paragraph extraction
	FormatDOCX Format = "docx"
)

// extensions maps accepted filename extensions to their format.
// .doc is routed to the DOCX reader; legacy binary files fail there with an ExtractionError.
var extensions = map[string]Format{
	".pdf":  FormatPDF,
	".docx": FormatDOCX,
	".doc":  FormatDOCX,
}

// FormatFromFilename selects a Format from the filename extension (case-insensitive)
func FormatFromFilename(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if format, ok := extensions[ext]; ok {
		return format, nil
	}
	return "", &UnsupportedFormatError{Filename: filename, Extension: ext}
}

// IsSupported reports whether the filename has an accepted extension
func IsSupported(filename string) bool {
	_, err := FormatFromFilename(filename)
	return err == nil
}

func supportedList() string {
	return ".pdf, .docx, .doc"
}

// Extractor turns document bytes into text
type Extractor struct {
	logger *slog.Logger
}

// New creates an Extractor. A nil logger falls back to slog.Default().
func New(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract converts document bytes of the given format into text.
// It returns an *ExtractionError when no text can be produced.
func (e *Extractor) Extract(data []byte, format Format) (string, error) {
	if len(data) == 0 {
		return "", &ExtractionError{Format: format, Message: "document is empty"}
	}

	var (
		text string
		err  error
	)
	switch format {
	case FormatPDF:
		text, err = e.extractPDF(data)
	case FormatDOCX:
		text, err = extractDOCX(data)
	default:
		return "", &UnsupportedFormatError{Extension: string(format)}
	}
	if err != nil {
		return "", err
	}

	text = collapseLineWhitespace(text)
	if strings.TrimSpace(text) == "" {
		return "", &ExtractionError{Format: format, Message: "no text found in document"}
	}
	return text, nil
}

// Extract converts document bytes using a default Extractor
func Extract(data []byte, format Format) (string, error) {
	return New(nil).Extract(data, format)
}

var horizontalSpaceRegex = regexp.MustCompile(`[ \t]+`)

// collapseLineWhitespace collapses runs of spaces/tabs and trims each line
func collapseLineWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(horizontalSpaceRegex.ReplaceAllString(line, " "))
	}
	return strings.Join(lines, "\n")
}
