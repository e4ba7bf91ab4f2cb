// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Pipeline misses. These are expected control flow and never shown to the user.
	ErrExtractionMiss   = errors.New("no field found in line")
	ErrNoConfidentMatch = errors.New("no confident catalog match")

	// Database errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// OCR errors.
	ErrOcrTimeout     = errors.New("ocr timed out")
	ErrEmptyOcrResult = errors.New("ocr returned no text")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// ParseError is returned when an edit buffer does not parse as the expected type.
type ParseError struct {
	Err   error
	Field string
	Input string
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Input, e.Err)
	}
	return fmt.Sprintf("invalid %s %q", e.Field, e.Input)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// OcrError reports that an image could not be recognized.
type OcrError struct {
	Err  error
	Path string
}

func (e *OcrError) Error() string {
	return fmt.Sprintf("ocr failed for %s: %v", e.Path, e.Err)
}

func (e *OcrError) Unwrap() error {
	return e.Err
}

// NewOcrError wraps err as an OCR failure for path. Deadline errors are
// normalized to ErrOcrTimeout so callers can tell them apart.
func NewOcrError(path string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("%w: %v", ErrOcrTimeout, err)
	}
	return &OcrError{Path: path, Err: err}
}

// StorageError reports a failed persistence operation. The operation that
// produced it was aborted without partial writes.
type StorageError struct {
	Err error
	Op  string
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps err as a storage failure for op.
func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// IsUserVisible reports whether err belongs to one of the kinds surfaced to the user.
func IsUserVisible(err error) bool {
	var parseErr *ParseError
	var ocrErr *OcrError
	var storageErr *StorageError
	var userErr *UserError
	return errors.As(err, &parseErr) ||
		errors.As(err, &ocrErr) ||
		errors.As(err, &storageErr) ||
		errors.As(err, &userErr)
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimit) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
