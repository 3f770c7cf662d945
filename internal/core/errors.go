package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUserExists and ErrUserNotFound are the account-store sentinels.
var (
	ErrUserExists   = errors.New("email already exists")
	ErrUserNotFound = errors.New("user not found")
)

// SupportedFileTypes lists the attachment extensions the extraction
// dispatch accepts, in the order they are reported to callers.
var SupportedFileTypes = []string{
	".txt", ".md", ".html", ".docx", ".pdf", ".png", ".jpg", ".jpeg", ".bmp", ".tiff",
}

// UnsupportedInputError reports an attachment whose type is not handled
// by any extractor.
type UnsupportedInputError struct {
	Filename string
}

func (e *UnsupportedInputError) Error() string {
	return fmt.Sprintf("Unsupported file type %q. Supported: %s",
		e.Filename, strings.Join(SupportedFileTypes, ", "))
}

// InvalidModelError reports an unknown friendly model name.
type InvalidModelError struct {
	Name  string
	Valid []string
}

func (e *InvalidModelError) Error() string {
	return fmt.Sprintf("Invalid model %q. Choose from [%s]", e.Name, strings.Join(e.Valid, ", "))
}

// StorageError wraps a durable-store I/O failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ExtractionError reports an attachment of a supported type that could
// not be parsed.
type ExtractionError struct {
	Filename string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from %q: %v", e.Filename, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// CompletionError reports a failed or timed-out downstream model call.
type CompletionError struct {
	Model string
	Err   error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("completion call to %s failed: %v", e.Model, e.Err)
}

func (e *CompletionError) Unwrap() error { return e.Err }
