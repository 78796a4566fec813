package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ParseRequest describes an uploaded document before it is parsed
type ParseRequest struct {
	Filename string `json:"filename" validate:"required,max=255"`
	Size     int64  `json:"size" validate:"gt=0"`
	MaxSize  int64  `json:"-" validate:"gt=0"`
}

// ParseResponse wraps a result together with its stored record ID (if persisted)
type ParseResponse struct {
	ID     string       `json:"id,omitempty"`
	Result *ParseResult `json:"result"`
}

// Validate validates the ParseRequest using the validator.
// Size is additionally checked against MaxSize.
func (r *ParseRequest) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return err
	}
	if r.Size > r.MaxSize {
		return &SizeLimitError{Size: r.Size, Limit: r.MaxSize}
	}
	return nil
}

// SizeLimitError indicates an upload larger than the configured limit
type SizeLimitError struct {
	Size  int64
	Limit int64
}

func (e *SizeLimitError) Error() string {
	return fmt.Sprintf("file too large: %s exceeds limit of %s", formatBytes(e.Size), formatBytes(e.Limit))
}

func formatBytes(n int64) string {
	const unit = 1024
	switch {
	case n < unit:
		return fmt.Sprintf("%d B", n)
	case n < unit*unit:
		return fmt.Sprintf("%d KB", n/unit)
	default:
		return fmt.Sprintf("%d MB", n/(unit*unit))
	}
}
