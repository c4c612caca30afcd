package analyses

import (
	"errors"
	"fmt"
)

// MaxFileSize is checked locally before any network call.
const MaxFileSize = 5 * 1024 * 1024

var (
	// ErrFileTooLarge rejects uploads over MaxFileSize.
	ErrFileTooLarge = errors.New("file size exceeds 5MB limit")

	// ErrNotFound indicates a lookup for an id that does not exist.
	ErrNotFound = errors.New("analysis not found")
)

// AnalysisError is a failure reported by the analysis engine. It is fatal:
// nothing gets persisted when the analysis itself failed.
type AnalysisError struct {
	Status int
	Detail string
}

func (e *AnalysisError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("analyzer returned %d: %s", e.Status, e.Detail)
	}
	return e.Detail
}

// StorageErrorKind classifies artifact/persistence failures.
type StorageErrorKind string

const (
	StorageUnauthorized  StorageErrorKind = "unauthorized"
	StorageCanceled      StorageErrorKind = "canceled"
	StorageQuotaExceeded StorageErrorKind = "quota-exceeded"
	StorageRetryLimit    StorageErrorKind = "retry-limit-exceeded"
	StorageTimeout       StorageErrorKind = "timeout"
	StorageOther         StorageErrorKind = "other"
)

// StorageError wraps a store failure with its user-facing category.
// Storage failures during a submit are never fatal; the caller downgrades
// them to a flag on an otherwise successful result.
type StorageError struct {
	Kind StorageErrorKind
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Kind, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Message returns the text shown to the user for this category.
func (e *StorageError) Message() string {
	switch e.Kind {
	case StorageUnauthorized:
		return "You don't have permission to upload files"
	case StorageCanceled:
		return "Upload canceled"
	case StorageQuotaExceeded:
		return "Storage quota exceeded"
	case StorageRetryLimit:
		return "Upload failed after multiple attempts"
	case StorageTimeout:
		return "Upload timeout - please try again with a smaller file"
	default:
		return fmt.Sprintf("Storage error: %v", e.Err)
	}
}

// StorageMessage maps any persistence-step failure to user-facing text.
func StorageMessage(err error) string {
	var se *StorageError
	if errors.As(err, &se) {
		return se.Message()
	}
	return "Failed to save resume to storage"
}
