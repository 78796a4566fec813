package parsing

import (
	"testing"

	"github.com/jonathan/resume-parser/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProjects_TitleWithDashAndURL(t *testing.T) {
	got := ParseProjects("Resume Builder - Built a resume tool | Python, FastAPI, https://github.com/x/y")

	require.Len(t, got, 1)
	assert.Equal(t, types.ProjectEntry{
		Title:     "Resume Builder - Built a resume tool",
		TechStack: []string{"Python", "FastAPI"},
		URL:       strPtr("https://github.com/x/y"),
	}, got[0])
}

func TestParseProjects_MultipleProjects(t *testing.T) {
	section := `Resume Builder - CLI tool | Go, Cobra
• Parses PDFs
  and DOCX files
• Ships as a single binary
Chat App | TypeScript | React | https://chat.example.com
Realtime chat demo https://demo.example.com
Notes app`

	got := ParseProjects(section)
	require.Len(t, got, 2)

	assert.Equal(t, "Resume Builder - CLI tool", got[0].Title)
	assert.Equal(t, []string{"Go", "Cobra"}, got[0].TechStack)
	assert.Nil(t, got[0].URL)
	require.NotNil(t, got[0].Description)
	assert.Equal(t, []string{"Parses PDFs and DOCX files", "Ships as a single binary"}, got[0].Description.Bullets)

	assert.Equal(t, "Chat App", got[1].Title)
	assert.Equal(t, []string{"TypeScript", "React"}, got[1].TechStack)
	assert.Equal(t, strPtr("https://chat.example.com"), got[1].URL)
	require.NotNil(t, got[1].Description)
	assert.False(t, got[1].Description.IsList())
	assert.Equal(t, "Realtime chat demo https://demo.example.com\nNotes app", got[1].Description.Text)
}

func TestParseProjects_URLFromDescription(t *testing.T) {
	got := ParseProjects("Portfolio Site | Hugo\nSource at https://github.com/jane/site.")

	require.Len(t, got, 1)
	assert.Equal(t, strPtr("https://github.com/jane/site"), got[0].URL)
	assert.Equal(t, types.TextDescription("Source at"), got[0].Description)
}

func TestParseProjects_EdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		section string
		titles  []string
	}{
		{name: "lines before first title ignored", section: "Some intro\nApp | Go", titles: []string{"App"}},
		{name: "bullet with pipe is not a title", section: "App | Go\n• uses a | b", titles: []string{"App"}},
		{name: "dash bullet with pipe is not a title", section: "App | Go\n- uses a | b\n* and c | d", titles: []string{"App"}},
		{name: "square bullet with pipe is not a title", section: "App | Go\n▪ uses a | b", titles: []string{"App"}},
		{name: "empty title dropped", section: "| Go, Rust", titles: nil},
		{name: "no titles", section: "just some words", titles: nil},
		{name: "empty", section: "", titles: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseProjects(tt.section)
			assert.NotNil(t, got)
			var titles []string
			for _, p := range got {
				titles = append(titles, p.Title)
			}
			assert.Equal(t, tt.titles, titles)
		})
	}
}

func TestNewProject_TechStackCleanup(t *testing.T) {
	p := newProject("Tool | https://a.example.com, Go, | Redis")

	assert.Equal(t, strPtr("https://a.example.com"), p.entry.URL)
	assert.Equal(t, []string{"Go", "Redis"}, p.entry.TechStack)
}
