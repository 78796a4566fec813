package schemas

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/jonathan/resume-parser/internal/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResultSchema_ValidJSON(t *testing.T) {
	data, err := os.ReadFile("parse_result.schema.json")
	require.NoError(t, err)

	var v map[string]any
	require.NoError(t, json.Unmarshal(data, &v))
	assert.Equal(t, "ParseResult", v["title"])
}

func TestParseResultSchema_AcceptsEmptyResult(t *testing.T) {
	doc := `{
  "contact_info": {"email": null, "phone": null, "github": null, "linkedin": null, "portfolio": null, "location": null},
  "education": [],
  "experiences": [],
  "skills": [],
  "projects": [],
  "summary": null,
  "warnings": []
}`
	assert.NoError(t, schemas.ValidateBytes("parse_result.schema.json", []byte(doc)))
}
