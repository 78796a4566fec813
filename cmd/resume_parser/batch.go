package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-parser/internal/ingestion"
	"github.com/jonathan/resume-parser/internal/observability"
	"github.com/jonathan/resume-parser/internal/pipeline"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var batchCmd = &cobra.Command{
	Use:   "batch DIR",
	Short: "Parse every PDF and DOCX resume in a directory",
	Long: `Parse every supported resume directly inside DIR concurrently and write
one <file>.json per file (jane.pdf -> jane.pdf.json) to --out. Files that fail are reported in the summary
and do not stop the batch.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

var (
	batchOutputDir string
	batchWorkers   int
)

func init() {
	batchCmd.Flags().StringVarP(&batchOutputDir, "out", "o", "", "Output directory for JSON files (default: DIR)")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "Number of files parsed concurrently (default: batch_workers config, 4)")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	workers := batchWorkers
	if workers <= 0 {
		workers = cfg.BatchWorkers
	}

	dir := args[0]
	outDir := batchOutputDir
	if outDir == "" {
		outDir = dir
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	paths, err := ingestion.ListSupported(dir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no .pdf, .docx or .doc files found in %s", dir)
	}

	ctx := context.Background()
	parser, closeParser, err := newParser(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeParser()

	items := parseBatch(ctx, parser, paths, outDir, cfg.MaxUploadBytes, workers)

	observability.NewPrinter(os.Stdout).PrintBatchSummary(items)
	if cfg.Verbose {
		printer := observability.NewPrinter(os.Stderr)
		for _, item := range items {
			if item.Err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "%s: %v\n", item.File, item.Err)
				continue
			}
			printer.PrintParseResult(item.File, item.Result)
		}
	}

	if failed := countFailed(items); failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(items))
	}
	return nil
}

// parseBatch parses paths with at most workers files in flight. Items are
// returned in the order of paths; a failure is recorded on its item only.
func parseBatch(ctx context.Context, parser *pipeline.Parser, paths []string, outDir string, maxBytes int64, workers int) []observability.BatchItem {
	items := make([]observability.BatchItem, len(paths))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			items[i] = parseOne(gCtx, parser, path, outDir, maxBytes)
			return nil
		})
	}
	_ = g.Wait()

	return items
}

func parseOne(ctx context.Context, parser *pipeline.Parser, path, outDir string, maxBytes int64) observability.BatchItem {
	item := observability.BatchItem{File: filepath.Base(path)}

	doc, err := ingestion.LoadFile(path, maxBytes)
	if err != nil {
		item.Err = err
		return item
	}
	result, err := parser.Parse(ctx, doc.Data, doc.Metadata.Filename)
	if err != nil {
		item.Err = err
		return item
	}
	jsonBytes, err := marshalResult(result)
	if err != nil {
		item.Err = err
		return item
	}
	if err := os.WriteFile(filepath.Join(outDir, outputName(item.File)), jsonBytes, 0644); err != nil {
		item.Err = fmt.Errorf("failed to write output: %w", err)
		return item
	}

	item.Result = result
	return item
}

// outputName maps "jane.pdf" to "jane.pdf.json" so jane.pdf and jane.docx do not collide
func outputName(filename string) string {
	return filename + ".json"
}

func countFailed(items []observability.BatchItem) int {
	n := 0
	for _, item := range items {
		if item.Err != nil {
			n++
		}
	}
	return n
}
