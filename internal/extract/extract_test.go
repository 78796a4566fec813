package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFromFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     Format
		wantErr  bool
	}{
		{name: "pdf", filename: "resume.pdf", want: FormatPDF},
		{name: "uppercase pdf", filename: "RESUME.PDF", want: FormatPDF},
		{name: "docx", filename: "cv.docx", want: FormatDOCX},
		{name: "legacy doc", filename: "cv.doc", want: FormatDOCX},
		{name: "path with dots", filename: "/tmp/jane.doe.v2.pdf", want: FormatPDF},
		{name: "text file", filename: "resume.txt", wantErr: true},
		{name: "no extension", filename: "resume", wantErr: true},
		{name: "empty", filename: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatFromFilename(tt.filename)
			if tt.wantErr {
				var unsupported *UnsupportedFormatError
				require.Error(t, err)
				assert.True(t, errors.As(err, &unsupported))
				assert.False(t, IsSupported(tt.filename))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, IsSupported(tt.filename))
		})
	}
}

func TestUnsupportedFormatError_Message(t *testing.T) {
	err := &UnsupportedFormatError{Filename: "resume.txt", Extension: ".txt"}
	assert.Contains(t, err.Error(), ".txt")
	assert.Contains(t, err.Error(), ".pdf")

	noExt := &UnsupportedFormatError{Filename: "resume"}
	assert.Contains(t, noExt.Error(), "no extension")
}

func TestExtract_EmptyInput(t *testing.T) {
	_, err := Extract(nil, FormatPDF)
	var extractionErr *ExtractionError
	require.Error(t, err)
	assert.True(t, errors.As(err, &extractionErr))
	assert.Equal(t, FormatPDF, extractionErr.Format)
}

func TestExtract_InvalidPDF(t *testing.T) {
	_, err := Extract([]byte("this is definitely not a pdf document"), FormatPDF)
	var extractionErr *ExtractionError
	require.Error(t, err)
	assert.True(t, errors.As(err, &extractionErr))
	assert.NotNil(t, errors.Unwrap(err))
}

func TestExtract_DOCX(t *testing.T) {
	doc := buildDOCX(t, []string{
		`<w:p><w:r><w:t>Jane   Doe</w:t></w:r></w:p>`,
		`<w:p><w:r><w:t xml:space="preserve">  jane@example.com </w:t></w:r><w:r><w:tab/><w:t>555-123-4567</w:t></w:r></w:p>`,
		`<w:p></w:p>`,
		`<w:p><w:r><w:t>Experience</w:t></w:r></w:p>`,
		`<w:p><w:r><w:t>- Built </w:t></w:r><w:r><w:t>things</w:t></w:r></w:p>`,
	})

	text, err := Extract(doc, FormatDOCX)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\njane@example.com 555-123-4567\n\nExperience\n- Built things", text)
}

func TestExtract_DOCXTextBox(t *testing.T) {
	textBox := `<w:p><w:r><w:t>jane@example.com</w:t></w:r></w:p>`
	doc := buildDOCX(t, []string{
		`<w:p><w:r><w:t xml:space="preserve">Jane Doe Software Engineer</w:t></w:r>` +
			`<w:r><mc:AlternateContent xmlns:mc="http://schemas.openxmlformats.org/markup-compatibility/2006">` +
			`<mc:Choice Requires="wps"><w:drawing><wps:txbx xmlns:wps="http://schemas.microsoft.com/office/word/2010/wordprocessingShape">` +
			`<w:txbxContent>` + textBox + `</w:txbxContent></wps:txbx></w:drawing></mc:Choice>` +
			`<mc:Fallback><w:pict><v:textbox xmlns:v="urn:schemas-microsoft-com:vml">` +
			`<w:txbxContent>` + textBox + `</w:txbxContent></v:textbox></w:pict></mc:Fallback>` +
			`</mc:AlternateContent></w:r>` +
			`<w:r><w:t xml:space="preserve"> tail</w:t></w:r></w:p>`,
		`<w:p><w:r><w:t>Experience</w:t></w:r></w:p>`,
	})

	text, err := Extract(doc, FormatDOCX)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe Software Engineer tail\njane@example.com\nExperience", text)
}

func TestReadParagraphs_TextOutsideParagraph(t *testing.T) {
	paragraphs, err := readParagraphs(strings.NewReader(`<w:body xmlns:w="w"><w:r><w:t>loose</w:t></w:r><w:p><w:r><w:t>kept</w:t></w:r></w:p></w:body>`))
	require.NoError(t, err)
	assert.Equal(t, []string{"kept"}, paragraphs)
}

func TestExtract_DOCXMissingBody(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<styles/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = Extract(buf.Bytes(), FormatDOCX)
	var extractionErr *ExtractionError
	require.Error(t, err)
	assert.True(t, errors.As(err, &extractionErr))
	assert.Contains(t, err.Error(), "word/document.xml")
}

func TestExtract_DOCXNotAZip(t *testing.T) {
	_, err := Extract([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, FormatDOCX)
	var extractionErr *ExtractionError
	require.Error(t, err)
	assert.True(t, errors.As(err, &extractionErr))
}

func TestExtract_DOCXNoText(t *testing.T) {
	doc := buildDOCX(t, []string{`<w:p></w:p>`, `<w:p><w:r><w:t>   </w:t></w:r></w:p>`})

	_, err := Extract(doc, FormatDOCX)
	var extractionErr *ExtractionError
	require.Error(t, err)
	assert.True(t, errors.As(err, &extractionErr))
}

func TestCollapseLineWhitespace(t *testing.T) {
	input := "  Jane \t  Doe  \r\nSoftware\t\tEngineer\r  \n"
	assert.Equal(t, "Jane Doe\nSoftware Engineer\n\n", collapseLineWhitespace(input))
}

func buildDOCX(t *testing.T, paragraphs []string) []byte {
	t.Helper()

	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(p)
	}
	body.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write(body.Bytes())
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
