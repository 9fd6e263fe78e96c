package usecase

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrSlotConflict means the requested interval overlaps an active appointment
	ErrSlotConflict = errors.New("requested time overlaps an existing appointment")

	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrAppointmentNotActive    = errors.New("appointment is already cancelled or closed")
	ErrInvalidStatusTransition = errors.New("invalid appointment status transition")
	ErrDentistNotFound         = errors.New("dentist not found")
	ErrAvailabilityNotFound    = errors.New("availability not found")
	ErrAvailabilityExists      = errors.New("availability already set for this dentist and date")
)

// ValidationError reports request fields that failed validation, keyed by
// their JSON name.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// StorageError wraps a failure of the backing store. Callers may retry the
// whole operation; nothing is retried here.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err carries a ValidationError and returns it
func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// IsStorageError reports whether err wraps a StorageError
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
