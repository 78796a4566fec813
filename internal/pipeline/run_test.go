package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/jonathan/resume-parser/internal/extract"
	"github.com/jonathan/resume-parser/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var resumeLines = []string{
	"Jane Doe",
	"jane@example.com | (555) 123-4567",
	"",
	"Summary",
	"Backend engineer building APIs.",
	"Experience",
	"Software Engineer",
	"Acme Corp | Remote",
	"Jan 2020 - Present",
	"• Built Go services",
	"Skills",
	"Languages: Go, Python",
}

func buildDOCX(t *testing.T, lines []string) []byte {
	t.Helper()

	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, line := range lines {
		body.WriteString(`<w:p><w:r><w:t>` + line + `</w:t></w:r></w:p>`)
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

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeCleaner struct {
	out string
	err error
}

func (f fakeCleaner) Clean(_ context.Context, _ string) (string, error) {
	return f.out, f.err
}

func TestParse_DOCXResume(t *testing.T) {
	p := New(Options{Logger: quietLogger()})

	result, err := p.Parse(context.Background(), buildDOCX(t, resumeLines), "jane.docx")
	require.NoError(t, err)

	require.NotNil(t, result.ContactInfo.Email)
	assert.Equal(t, "jane@example.com", *result.ContactInfo.Email)
	require.NotNil(t, result.Summary)
	assert.Equal(t, "Backend engineer building APIs.", *result.Summary)

	require.Len(t, result.Experiences, 1)
	assert.Equal(t, "Software Engineer", *result.Experiences[0].Title)
	assert.Equal(t, "Acme Corp", *result.Experiences[0].Company)
	assert.True(t, result.Experiences[0].Current)

	require.Len(t, result.Skills, 2)
	assert.Equal(t, "Go", result.Skills[0].Name)
	assert.Equal(t, "Languages", *result.Skills[0].Category)

	assert.Empty(t, result.Education)
	assert.NotNil(t, result.Education)
	assert.NotNil(t, result.Projects)
	assert.Empty(t, result.Warnings)
}

func TestParse_Errors(t *testing.T) {
	p := New(Options{Logger: quietLogger()})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := p.Parse(context.Background(), []byte("hello"), "resume.txt")
		var unsupported *extract.UnsupportedFormatError
		require.Error(t, err)
		assert.True(t, errors.As(err, &unsupported))
	})

	t.Run("corrupt pdf", func(t *testing.T) {
		_, err := p.Parse(context.Background(), []byte("not a pdf"), "resume.pdf")
		var extractionErr *extract.ExtractionError
		require.Error(t, err)
		assert.True(t, errors.As(err, &extractionErr))
	})
}

func TestParse_FieldFailureBecomesWarning(t *testing.T) {
	p := New(Options{Logger: quietLogger()})
	p.fields = append([]field{{
		name: "education",
		parse: func(_ document, r *types.ParseResult) {
			panic(errors.New("index out of range"))
		},
	}}, fields[2:]...)

	result, err := p.Parse(context.Background(), buildDOCX(t, resumeLines), "jane.docx")
	require.NoError(t, err)

	assert.Equal(t, []string{"Could not extract education: index out of range"}, result.Warnings)
	assert.Empty(t, result.Education)
	assert.Len(t, result.Experiences, 1)
	assert.NotNil(t, result.Summary)
}

func TestParse_Cleaner(t *testing.T) {
	tests := []struct {
		name        string
		cleaner     fakeCleaner
		wantSummary string
		wantWarning string
	}{
		{
			name:        "cleaned text is used",
			cleaner:     fakeCleaner{out: "Summary\nRewritten summary."},
			wantSummary: "Rewritten summary.",
		},
		{
			name:        "error falls back",
			cleaner:     fakeCleaner{err: errors.New("quota exceeded")},
			wantSummary: "Backend engineer building APIs.",
			wantWarning: "Text cleanup skipped: quota exceeded",
		},
		{
			name:        "empty output falls back",
			cleaner:     fakeCleaner{out: "  \n"},
			wantSummary: "Backend engineer building APIs.",
			wantWarning: "Text cleanup skipped: empty output",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(Options{Logger: quietLogger(), Cleaner: tt.cleaner})

			result, err := p.Parse(context.Background(), buildDOCX(t, resumeLines), "jane.docx")
			require.NoError(t, err)
			require.NotNil(t, result.Summary)
			assert.Equal(t, tt.wantSummary, *result.Summary)
			if tt.wantWarning == "" {
				assert.Empty(t, result.Warnings)
			} else {
				assert.Equal(t, []string{tt.wantWarning}, result.Warnings)
			}
		})
	}
}

func TestParse_ProgressEvents(t *testing.T) {
	var steps []string
	p := New(Options{
		Logger: quietLogger(),
		OnProgress: func(event ProgressEvent) {
			steps = append(steps, event.Step)
		},
	})

	_, err := p.Parse(context.Background(), buildDOCX(t, resumeLines), "jane.docx")
	require.NoError(t, err)
	assert.Equal(t, []string{StepExtract, StepNormalize, StepSegment, StepFields, StepComplete}, steps)
}

func TestParseResume(t *testing.T) {
	result, err := ParseResume(buildDOCX(t, resumeLines), "JANE.DOCX")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(*result.ContactInfo.Email, "jane@"))
}
