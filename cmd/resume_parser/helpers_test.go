package main

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/resume-parser/internal/config"
	"github.com/jonathan/resume-parser/internal/pipeline"
	"github.com/stretchr/testify/require"
)

var resumeLines = []string{
	"Jane Doe",
	"jane@example.com",
	"Experience",
	"Software Engineer",
	"Acme Corp",
	"Jan 2020 - Present",
	"Skills",
	"Languages: Go, Python",
}

// writeDOCX writes a minimal DOCX holding one paragraph per line
func writeDOCX(t *testing.T, path string, lines []string) {
	t.Helper()

	var body bytes.Buffer
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

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

// testParser returns the deterministic pipeline with logs discarded
func testParser(t *testing.T) *pipeline.Parser {
	t.Helper()
	cfg := config.Default()
	parser, closeFn, err := newParser(context.Background(), &cfg)
	require.NoError(t, err)
	t.Cleanup(closeFn)
	return parser
}

// fixtureDir creates a directory with a valid DOCX, a corrupt PDF and an unsupported file
func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeDOCX(t, filepath.Join(dir, "jane.docx"), resumeLines)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.pdf"), []byte("not a pdf"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0644))
	return dir
}
