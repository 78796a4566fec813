package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/resume-parser/internal/config"
	"github.com/jonathan/resume-parser/internal/db"
	"github.com/jonathan/resume-parser/internal/ingestion"
	"github.com/jonathan/resume-parser/internal/observability"
	"github.com/jonathan/resume-parser/internal/schemas"
	"github.com/jonathan/resume-parser/internal/types"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Parse a PDF or DOCX resume into ParseResult JSON",
	Long:  "Parse a PDF or DOCX resume and print the structured result as JSON, or write it to --out.",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

var (
	parseOutputFile string
	parseValidate   bool
	parseSave       bool
)

func init() {
	parseCmd.Flags().StringVarP(&parseOutputFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	parseCmd.Flags().BoolVar(&parseValidate, "validate", false, "Validate the output against schemas/parse_result.schema.json")
	parseCmd.Flags().BoolVar(&parseSave, "save", false, "Store the result in the database (requires DATABASE_URL)")

	rootCmd.AddCommand(parseCmd)
}

func runParse(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := context.Background()

	doc, err := ingestion.LoadFile(args[0], cfg.MaxUploadBytes)
	if err != nil {
		return err
	}

	parser, closeParser, err := newParser(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeParser()

	result, err := parser.Parse(ctx, doc.Data, doc.Metadata.Filename)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", args[0], err)
	}

	jsonBytes, err := marshalResult(result)
	if err != nil {
		return err
	}
	if parseValidate {
		if err := validateResult(result); err != nil {
			return err
		}
	}

	if parseOutputFile != "" {
		if err := os.WriteFile(parseOutputFile, jsonBytes, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stderr, "Output: %s\n", parseOutputFile)
	} else {
		_, _ = fmt.Fprintln(os.Stdout, string(jsonBytes))
	}

	if cfg.Verbose {
		observability.NewPrinter(os.Stderr).PrintParseResult(doc.Metadata.Filename, result)
	}

	if parseSave {
		return saveResult(ctx, cfg, doc.Metadata, result)
	}
	return nil
}

func marshalResult(result *types.ParseResult) ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return jsonBytes, nil
}

// validateResult checks the JSON form of result against the ParseResult schema.
// A missing or unreadable schema only produces a warning.
func validateResult(result any) error {
	schemaPath := schemas.ResolveSchemaPath(schemas.ParseResultSchema)
	if schemaPath == "" {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: schema %s not found, skipping validation\n", schemas.ParseResultSchema)
		return nil
	}

	err := schemas.ValidateValue(schemaPath, result)
	var validationErr *schemas.ValidationError
	var schemaLoadErr *schemas.SchemaLoadError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &validationErr):
		return fmt.Errorf("generated JSON does not validate against schema: %w", err)
	case errors.As(err, &schemaLoadErr):
		_, _ = fmt.Fprintf(os.Stderr, "Warning: Could not validate output against schema (schema loading failed): %v\n", err)
		return nil
	default:
		_, _ = fmt.Fprintf(os.Stderr, "Warning: Could not validate output against schema: %v\n", err)
		return nil
	}
}

// saveResult stores the result unless a parse of the same file content is already stored
func saveResult(ctx context.Context, cfg *config.Config, meta *ingestion.Metadata, result *types.ParseResult) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL required when using --save")
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}

	existing, err := database.GetParseByHash(ctx, meta.Hash)
	if err != nil {
		return fmt.Errorf("failed to look up existing parse: %w", err)
	}
	if existing != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Already stored as %s (same file hash)\n", existing.ID)
		return nil
	}

	id, err := database.SaveParse(ctx, meta, result)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stderr, "Saved parse %s\n", id)
	return nil
}
