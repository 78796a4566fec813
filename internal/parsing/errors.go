package parsing

import "fmt"

// FieldParseError reports a field parser that failed and was skipped.
// The remaining fields of the result are unaffected.
type FieldParseError struct {
	Field string
	Cause error
}

func (e *FieldParseError) Error() string {
	return fmt.Sprintf("could not extract %s: %v", e.Field, e.Cause)
}

func (e *FieldParseError) Unwrap() error {
	return e.Cause
}

// Recover runs fn and converts a panic into a *FieldParseError for field
func Recover(field string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("%v", r)
			}
			err = &FieldParseError{Field: field, Cause: cause}
		}
	}()
	fn()
	return nil
}
