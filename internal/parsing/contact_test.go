package parsing

import (
	"testing"

	"github.com/jonathan/resume-parser/internal/segment"
	"github.com/jonathan/resume-parser/internal/types"
	"github.com/stretchr/testify/assert"
)

func parseContactText(text string) types.Contact {
	return ParseContact(text, segment.Segment(text))
}

func TestParseContact_HeaderBlock(t *testing.T) {
	text := `Jane Doe
Boston, MA | jane.doe@example.com | (555) 123-4567
github.com/janedoe | https://linkedin.com/in/jane-doe | https://janedoe.dev

Projects
Resume Builder | Go, https://resume.example.com`

	c := parseContactText(text)

	assert.Equal(t, strPtr("jane.doe@example.com"), c.Email)
	assert.Equal(t, strPtr("(555) 123-4567"), c.Phone)
	assert.Equal(t, strPtr("https://github.com/janedoe"), c.GitHub)
	assert.Equal(t, strPtr("https://linkedin.com/in/jane-doe"), c.LinkedIn)
	assert.Equal(t, strPtr("https://janedoe.dev"), c.Portfolio)
	assert.Equal(t, strPtr("Boston, MA"), c.Location)
}

func TestParseContact_ProjectURLNeverPortfolio(t *testing.T) {
	text := `Jane Doe
jane@example.com

Projects
Demo App | Go
• Live at https://demo.example.com`

	c := parseContactText(text)
	assert.Nil(t, c.Portfolio)
	assert.Equal(t, strPtr("jane@example.com"), c.Email)
}

func TestParseContact_ExperienceURLNeverPortfolio(t *testing.T) {
	text := `Jane Doe
https://acme.example.com/team

Experience
Engineer
Acme | Remote
2019 - 2020
• Shipped https://acme.example.com/team`

	c := parseContactText(text)
	assert.Nil(t, c.Portfolio)
	assert.Nil(t, c.Location, "work mode of a job is not the candidate location")
}

func TestParseContact_URLNormalization(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		github   *string
		linkedin *string
	}{
		{
			name:     "bare domains get a scheme",
			text:     "www.linkedin.com/in/jane github.com/jane",
			github:   strPtr("https://github.com/jane"),
			linkedin: strPtr("https://www.linkedin.com/in/jane"),
		},
		{
			name:   "existing scheme kept",
			text:   "http://github.com/jane",
			github: strPtr("http://github.com/jane"),
		},
		{
			name:   "trailing punctuation dropped",
			text:   "Code lives at https://github.com/jane.",
			github: strPtr("https://github.com/jane"),
		},
		{
			name:     "full URL preferred over earlier bare form",
			text:     "linkedin.com/in/old https://linkedin.com/in/new",
			linkedin: strPtr("https://linkedin.com/in/new"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := parseContactText(tt.text)
			assert.Equal(t, tt.github, c.GitHub)
			assert.Equal(t, tt.linkedin, c.LinkedIn)
		})
	}
}

func TestParseContact_Location(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *string
	}{
		{name: "multi-word city", text: "Jane Doe\nSan Francisco, CA · jane@example.com", want: strPtr("San Francisco, CA")},
		{name: "unknown region code ignored", text: "Jane Doe, XY\njane@example.com", want: nil},
		{name: "work mode keyword", text: "Jane Doe\nOpen to remote roles", want: strPtr("Remote")},
		{name: "contact section", text: "Jane Doe\n\nContact\nAustin, TX\n\nSkills\nGo", want: strPtr("Austin, TX")},
		{name: "nothing", text: "Jane Doe\njane@example.com", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseContactText(tt.text).Location)
		})
	}
}

func TestParseContact_Empty(t *testing.T) {
	assert.Equal(t, types.Contact{}, ParseContact("", segment.Sections{}))
}
