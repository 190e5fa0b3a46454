package answer

import (
	"errors"
	"fmt"
)

// ErrUnsupportedLanguage is returned for a language other than English or Hindi.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// UnmappedDiagnosisError is returned when a diagnosis has no reference document.
type UnmappedDiagnosisError struct {
	Diagnosis string
}

func (e *UnmappedDiagnosisError) Error() string {
	return fmt.Sprintf("no reference document for diagnosis %q", e.Diagnosis)
}
