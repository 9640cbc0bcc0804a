package model

import (
	"errors"
	"fmt"
)

// Error taxonomy of the engine. Callers match with errors.Is.
var (
	// ErrUnsupportedFormat marks an unknown file type tag. Caller error, not retryable.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrExtractionFailure marks a corrupt or unreadable document payload.
	ErrExtractionFailure = errors.New("document extraction failed")
	// ErrRetrievalUnavailable marks an unreachable encoder or index. Transient.
	ErrRetrievalUnavailable = errors.New("retrieval backend unavailable")
	// ErrGenerationFailure marks a language generation backend error. Transient.
	ErrGenerationFailure = errors.New("generation backend failure")
	// ErrEmptyQuery marks a blank query text. Caller error.
	ErrEmptyQuery = errors.New("query text is empty")
)

// UnsupportedFormat wraps ErrUnsupportedFormat with the offending type tag
func UnsupportedFormat(fileType FileType) error {
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(fileType))
}

// ExtractionFailure wraps ErrExtractionFailure with the source identifier
func ExtractionFailure(source string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrExtractionFailure, source, err)
}

// RetrievalUnavailable wraps an encoder or index error into the taxonomy
func RetrievalUnavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrRetrievalUnavailable, err)
}

// GenerationFailure wraps a generation backend error into the taxonomy
func GenerationFailure(err error) error {
	return fmt.Errorf("%w: %w", ErrGenerationFailure, err)
}
