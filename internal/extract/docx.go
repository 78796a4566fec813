package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// documentPart is the main body part of an OOXML word-processing package
const documentPart = "word/document.xml"

// extractDOCX returns paragraph text in document order, one paragraph per line.
// Tabs and explicit breaks inside a paragraph are kept as \t and \n.
func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Format: FormatDOCX, Message: "not a valid DOCX archive", Cause: err}
	}

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == documentPart {
			body = f
			break
		}
	}
	if body == nil {
		return "", &ExtractionError{Format: FormatDOCX, Message: documentPart + " not found"}
	}

	rc, err := body.Open()
	if err != nil {
		return "", &ExtractionError{Format: FormatDOCX, Message: "cannot open document body", Cause: err}
	}
	defer func() { _ = rc.Close() }()

	paragraphs, err := readParagraphs(rc)
	if err != nil {
		return "", &ExtractionError{Format: FormatDOCX, Message: "malformed document body", Cause: err}
	}
	return strings.Join(paragraphs, "\n"), nil
}

// readParagraphs walks the WordprocessingML token stream collecting <w:p> text.
// Paragraphs nested in text boxes get their own slot after the enclosing paragraph's
// slot, and the enclosing paragraph resumes once they close. mc:Fallback branches
// repeat their mc:Choice content and are skipped.
func readParagraphs(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var (
		paragraphs []string
		open       []int
		builders   []*strings.Builder
		inText     bool
	)
	current := func() *strings.Builder {
		if len(builders) == 0 {
			return nil
		}
		return builders[len(builders)-1]
	}

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xml token: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "Fallback":
				if err := decoder.Skip(); err != nil {
					return nil, fmt.Errorf("xml skip fallback: %w", err)
				}
			case "p":
				paragraphs = append(paragraphs, "")
				open = append(open, len(paragraphs)-1)
				builders = append(builders, &strings.Builder{})
			case "t":
				inText = true
			case "tab":
				if b := current(); b != nil {
					b.WriteByte('\t')
				}
			case "br", "cr":
				if b := current(); b != nil {
					b.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if len(open) == 0 {
					continue
				}
				last := len(open) - 1
				paragraphs[open[last]] = builders[last].String()
				open, builders = open[:last], builders[:last]
			case "t":
				inText = false
			}
		case xml.CharData:
			if b := current(); inText && b != nil {
				b.Write(t)
			}
		}
	}
	return paragraphs, nil
}
