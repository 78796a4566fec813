package extract

import "fmt"

// UnsupportedFormatError is returned when a filename extension is not one of the supported formats
type UnsupportedFormatError struct {
	Filename  string
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Extension == "" {
		return fmt.Sprintf("unsupported file format: %q has no extension (supported: %s)", e.Filename, supportedList())
	}
	return fmt.Sprintf("unsupported file format %q (supported: %s)", e.Extension, supportedList())
}

// ExtractionError is returned when a document yields no text at all
type ExtractionError struct {
	Format  Format
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s extraction failed: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s extraction failed: %s", e.Format, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
