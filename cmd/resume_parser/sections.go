package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/resume-parser/internal/extract"
	"github.com/jonathan/resume-parser/internal/ingestion"
	"github.com/jonathan/resume-parser/internal/normalize"
	"github.com/jonathan/resume-parser/internal/observability"
	"github.com/jonathan/resume-parser/internal/segment"
	"github.com/spf13/cobra"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections FILE",
	Short: "Show the sections detected in a resume",
	Long:  "Extract and normalize a resume, then show which section headers were found and how much text each section holds. Useful for debugging a parse.",
	Args:  cobra.ExactArgs(1),
	RunE:  runSections,
}

var sectionsJSON bool

func init() {
	sectionsCmd.Flags().BoolVar(&sectionsJSON, "json", false, "Print sections as a JSON object of name to text")

	rootCmd.AddCommand(sectionsCmd)
}

func runSections(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sections, err := loadSections(args[0], cfg.MaxUploadBytes, cfg.Verbose)
	if err != nil {
		return err
	}

	if sectionsJSON {
		jsonBytes, err := json.MarshalIndent(sections, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, _ = fmt.Fprintln(os.Stdout, string(jsonBytes))
		return nil
	}

	observability.NewPrinter(os.Stdout).PrintSections(sections)
	return nil
}

// loadSections runs the extract, normalize and segment stages on the file at path
func loadSections(path string, maxBytes int64, verbose bool) (segment.Sections, error) {
	doc, err := ingestion.LoadFile(path, maxBytes)
	if err != nil {
		return nil, err
	}

	raw, err := extract.New(newLogger(os.Stderr, verbose)).Extract(doc.Data, doc.Metadata.Format)
	if err != nil {
		return nil, err
	}
	return segment.Segment(normalize.Normalize(raw)), nil
}
