package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState is returned when an operation is attempted outside its valid status
	ErrInvalidState = errors.New("invalid state")

	// ErrEmptyHistory is returned when exporting a log with no messages
	ErrEmptyHistory = errors.New("no chat history to export")

	// ErrNotFound is returned when a saved history does not exist
	ErrNotFound = errors.New("not found")
)

// ServiceError represents a failed call to the analysis service
type ServiceError struct {
	StatusCode int    // 0 when the request never got a response
	Detail     string // human readable detail reported by the service, if any
	Err        error
}

func (e *ServiceError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Detail != "":
		return fmt.Sprintf("service error [%d]: %s", e.StatusCode, e.Detail)
	case e.StatusCode != 0:
		return fmt.Sprintf("service error [%d]", e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("service error: %v", e.Err)
	default:
		return fmt.Sprintf("service error: %s", e.Detail)
	}
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Transport reports whether the failure happened before any response arrived
func (e *ServiceError) Transport() bool {
	return e.StatusCode == 0 && e.Err != nil
}

// StorageError represents errors accessing the history database or settings file
type StorageError struct {
	Path string
	Op   string // "open", "read", "write", "migrate"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
