// Package pipeline provides the orchestration for turning an uploaded resume into a ParseResult.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/jonathan/resume-parser/internal/extract"
	"github.com/jonathan/resume-parser/internal/normalize"
	"github.com/jonathan/resume-parser/internal/parsing"
	"github.com/jonathan/resume-parser/internal/segment"
	"github.com/jonathan/resume-parser/internal/types"
)

// Step names reported in progress events
const (
	StepExtract   = "extract"
	StepNormalize = "normalize"
	StepClean     = "clean"
	StepSegment   = "segment"
	StepFields    = "fields"
	StepComplete  = "complete"
)

// ProgressEvent represents a progress update during a parse
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when parse progress occurs
type ProgressCallback func(event ProgressEvent)

// TextCleaner rewrites normalized text before segmentation.
// Implementations must return the input unchanged in meaning; errors fall back to the input.
type TextCleaner interface {
	Clean(ctx context.Context, text string) (string, error)
}

// Options holds the optional collaborators of a Parser
type Options struct {
	Logger     *slog.Logger
	Cleaner    TextCleaner
	OnProgress ProgressCallback
}

// document is the segmented text handed to the field parsers
type document struct {
	text     string
	sections segment.Sections
}

// field is one independently recoverable field parser. name is used in warnings.
type field struct {
	name  string
	parse func(doc document, result *types.ParseResult)
}

// fields run in this order; a panic in one leaves its result at the empty value
var fields = []field{
	{name: "contact info", parse: func(doc document, r *types.ParseResult) {
		r.ContactInfo = parsing.ParseContact(doc.text, doc.sections)
	}},
	{name: "education", parse: func(doc document, r *types.ParseResult) {
		r.Education = parsing.ParseEducation(doc.sections.Get(segment.Education))
	}},
	{name: "experiences", parse: func(doc document, r *types.ParseResult) {
		r.Experiences = parsing.ParseExperience(doc.sections.Get(segment.Experience))
	}},
	{name: "skills", parse: func(doc document, r *types.ParseResult) {
		r.Skills = parsing.ParseSkills(doc.sections.Get(segment.Skills))
	}},
	{name: "projects", parse: func(doc document, r *types.ParseResult) {
		r.Projects = parsing.ParseProjects(doc.sections.Get(segment.Projects))
	}},
	{name: "summary", parse: func(doc document, r *types.ParseResult) {
		r.Summary = parsing.ParseSummary(doc.sections.Get(segment.Summary))
	}},
}

// Parser turns resume documents into structured results. It holds no per-call
// state and is safe for concurrent use.
type Parser struct {
	logger     *slog.Logger
	extractor  *extract.Extractor
	cleaner    TextCleaner
	onProgress ProgressCallback
	fields     []field
}

// New creates a Parser. Zero Options give the deterministic pipeline with the default logger.
func New(opts Options) *Parser {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		logger:     logger,
		extractor:  extract.New(logger),
		cleaner:    opts.Cleaner,
		onProgress: opts.OnProgress,
		fields:     fields,
	}
}

// ParseResume runs the deterministic pipeline with default options
func ParseResume(data []byte, filename string) (*types.ParseResult, error) {
	return New(Options{}).Parse(context.Background(), data, filename)
}

// Parse extracts, normalizes, and segments the document, then runs every field parser.
// Unsupported formats and extraction failures are returned as errors; field parser
// failures become warnings on an otherwise complete result.
func (p *Parser) Parse(ctx context.Context, data []byte, filename string) (*types.ParseResult, error) {
	format, err := extract.FormatFromFilename(filename)
	if err != nil {
		return nil, err
	}

	raw, err := p.extractor.Extract(data, format)
	if err != nil {
		p.logger.Error("extraction failed", "filename", filename, "format", format, "error", err)
		return nil, err
	}
	p.logger.Info("extracted text", "filename", filename, "format", format, "bytes", len(data), "chars", len(raw))
	p.emit(StepExtract, "Extracted text", map[string]int{"chars": len(raw)})

	result := types.NewParseResult()

	text := normalize.Normalize(raw)
	p.emit(StepNormalize, "Normalized text", nil)

	if p.cleaner != nil {
		text = p.clean(ctx, text, result)
	}

	sections := segment.Segment(text)
	p.logSections(sections)
	p.emit(StepSegment, "Segmented sections", sections.Names())

	doc := document{text: text, sections: sections}
	for _, f := range p.fields {
		if err := parsing.Recover(f.name, func() { f.parse(doc, result) }); err != nil {
			var fieldErr *parsing.FieldParseError
			if errors.As(err, &fieldErr) {
				result.AddWarning("Could not extract %s: %v", fieldErr.Field, fieldErr.Cause)
			}
			p.logger.Warn("field parser failed", "field", f.name, "error", err)
		}
	}
	p.emit(StepFields, "Parsed fields", result.Counts())

	p.logger.Info("parse complete",
		"filename", filename,
		"education", len(result.Education),
		"experiences", len(result.Experiences),
		"skills", len(result.Skills),
		"projects", len(result.Projects),
		"warnings", len(result.Warnings),
	)
	p.emit(StepComplete, "Parse complete", nil)

	return result, nil
}

// clean applies the optional cleaner, keeping the normalized text on error or empty output
func (p *Parser) clean(ctx context.Context, text string, result *types.ParseResult) string {
	cleaned, err := p.cleaner.Clean(ctx, text)
	if err != nil {
		p.logger.Warn("text cleanup failed, using normalized text", "error", err)
		result.AddWarning("Text cleanup skipped: %v", err)
		return text
	}
	if strings.TrimSpace(cleaned) == "" {
		p.logger.Warn("text cleanup returned no text, using normalized text")
		result.AddWarning("Text cleanup skipped: empty output")
		return text
	}
	p.emit(StepClean, "Cleaned text", nil)
	return normalize.Normalize(cleaned)
}

func (p *Parser) logSections(sections segment.Sections) {
	if len(sections) == 0 {
		p.logger.Warn("no section headers found")
		return
	}
	for _, name := range sections.Names() {
		p.logger.Debug("section", "name", name, "chars", len(sections.Get(name)))
	}
	p.logger.Info("segmented text", "sections", sections.Names())
}

// emit calls the progress callback if configured
func (p *Parser) emit(step, message string, content any) {
	if p.onProgress != nil {
		p.onProgress(ProgressEvent{Step: step, Message: message, Content: content})
	}
}
