package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated   = errors.New("authentication required")
	ErrListingNotFound   = errors.New("listing not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError reports a rejected form field. It is returned before any
// backend is contacted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

// UploadError wraps a failure to store the image. No record is written when
// it occurs.
type UploadError struct {
	Cause error
}

func (e *UploadError) Error() string { return "image upload failed: " + e.Cause.Error() }
func (e *UploadError) Unwrap() error { return e.Cause }

// PersistError wraps a failure to write the listing record. The uploaded
// image stays in storage (orphan, cleaned up out of band).
type PersistError struct {
	Cause error
}

func (e *PersistError) Error() string { return "listing persist failed: " + e.Cause.Error() }
func (e *PersistError) Unwrap() error { return e.Cause }

// ListError wraps a failure to read listings from the record store.
type ListError struct {
	Cause error
}

func (e *ListError) Error() string { return "listing fetch failed: " + e.Cause.Error() }
func (e *ListError) Unwrap() error { return e.Cause }

// SignError wraps a failure to resolve a signed URL for one image key.
// It is isolated per record and never fails a whole query.
type SignError struct {
	Key   string
	Cause error
}

func (e *SignError) Error() string {
	return fmt.Sprintf("signed URL for %q failed: %v", e.Key, e.Cause)
}
func (e *SignError) Unwrap() error { return e.Cause }
