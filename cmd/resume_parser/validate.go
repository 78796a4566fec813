package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/resume-parser/internal/schemas"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Validate a ParseResult JSON file against the schema",
	Long:  "Validate a JSON file produced by parse or batch against schemas/parse_result.schema.json, or the schema given with --schema.",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

var validateSchemaPath string

func init() {
	validateCmd.Flags().StringVar(&validateSchemaPath, "schema", "", "Path to JSON schema (default: schemas/parse_result.schema.json)")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	schemaPath := validateSchemaPath
	if schemaPath == "" {
		schemaPath = schemas.ResolveSchemaPath(schemas.ParseResultSchema)
		if schemaPath == "" {
			return fmt.Errorf("schema %s not found; pass --schema", schemas.ParseResultSchema)
		}
	}

	err := schemas.ValidateJSON(schemaPath, args[0])
	if err == nil {
		_, _ = fmt.Fprintf(os.Stdout, "Validation passed: %s\n", args[0])
		return nil
	}

	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		_, _ = fmt.Fprintln(os.Stdout, "Validation failed:")
		for _, fe := range validationErr.Errors {
			_, _ = fmt.Fprintf(os.Stdout, "  - %s: %s\n", fe.Field, fe.Message)
		}
		return fmt.Errorf("%s does not match the schema", args[0])
	}
	return err
}
