package llm

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-parser/internal/prompts"
)

const (
	cleanupPromptFile = "cleanup.json"
	cleanupPromptKey  = "clean-resume-text"

	// minRetainedRatio is the smallest cleaned/original length ratio accepted
	minRetainedRatio = 0.6
	// maxCleanupChars bounds the text sent to the model
	maxCleanupChars = 30000
)

// Cleaner repairs extraction damage in resume text with a model call.
// It satisfies pipeline.TextCleaner.
type Cleaner struct {
	client Client
	tier   ModelTier
}

// NewCleaner creates a Cleaner that uses the lite tier of client
func NewCleaner(client Client) *Cleaner {
	return &Cleaner{client: client, tier: TierLite}
}

// Clean returns the repaired text. Answers that drop a large share of the
// input are rejected so the caller can fall back to the original text.
func (c *Cleaner) Clean(ctx context.Context, text string) (string, error) {
	if utf8.RuneCountInString(text) > maxCleanupChars {
		return "", &APICallError{Message: fmt.Sprintf("text exceeds %d characters", maxCleanupChars)}
	}

	prompt, err := prompts.Render(cleanupPromptFile, cleanupPromptKey, map[string]string{"Text": text})
	if err != nil {
		return "", err
	}

	answer, err := c.client.GenerateContent(ctx, prompt, c.tier)
	if err != nil {
		return "", err
	}

	cleaned := StripCodeFence(answer)
	if len(strings.TrimSpace(text)) > 0 && float64(len(cleaned)) < minRetainedRatio*float64(len(strings.TrimSpace(text))) {
		return "", &APICallError{Message: fmt.Sprintf("cleaned text too short (%d of %d bytes)", len(cleaned), len(text))}
	}
	return cleaned, nil
}
