// Package schemas provides JSON Schema validation of parse results.
package schemas

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ParseResultSchema is the repo-relative path of the ParseResult schema
const ParseResultSchema = "schemas/parse_result.schema.json"

// ResolveSchemaPath finds a schema file relative to the working directory or up to
// two parent directories, so commands and tests resolve the same repo-relative path.
// Returns "" when none exists.
func ResolveSchemaPath(relativePath string) string {
	candidates := []string{
		relativePath,
		filepath.Join("..", relativePath),
		filepath.Join("..", "..", relativePath),
	}

	for _, candidate := range candidates {
		if absPath, err := filepath.Abs(candidate); err == nil {
			if _, err := os.Stat(absPath); err == nil {
				return absPath
			}
		}
	}
	return ""
}

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, err.Field, err.Message)
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// ValidateJSON validates a JSON file against a JSON Schema file
func ValidateJSON(schemaPath, jsonPath string) error {
	jsonAbsPath, err := filepath.Abs(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to resolve JSON path: %w", err)
	}
	if _, err := os.Stat(jsonAbsPath); os.IsNotExist(err) {
		return fmt.Errorf("JSON file not found: %s", jsonAbsPath)
	}

	schemaLoader, err := fileSchemaLoader(schemaPath)
	if err != nil {
		return err
	}
	return validate(schemaLoader, gojsonschema.NewReferenceLoader("file://"+jsonAbsPath), schemaPath)
}

// ValidateBytes validates an in-memory JSON document against a JSON Schema file
func ValidateBytes(schemaPath string, doc []byte) error {
	schemaLoader, err := fileSchemaLoader(schemaPath)
	if err != nil {
		return err
	}
	return validate(schemaLoader, gojsonschema.NewBytesLoader(doc), schemaPath)
}

// ValidateValue marshals v and validates it against a JSON Schema file
func ValidateValue(schemaPath string, v any) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return ValidateBytes(schemaPath, doc)
}

func fileSchemaLoader(schemaPath string) (gojsonschema.JSONLoader, error) {
	schemaAbsPath, err := filepath.Abs(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve schema path: %w", err)
	}
	if _, err := os.Stat(schemaAbsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("schema file not found: %s", schemaAbsPath)
	}
	return gojsonschema.NewReferenceLoader("file://" + schemaAbsPath), nil
}

func validate(schemaLoader, documentLoader gojsonschema.JSONLoader, schemaName string) error {
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    schemaName,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
