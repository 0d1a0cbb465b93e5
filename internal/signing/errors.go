package signing

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the signing workflow. Handlers map these to
// HTTP statuses; everything else is a 500 with a generic body.
var (
	// ErrNotFound covers both an unresolvable document id and a missing
	// original blob (upload/storage drift).
	ErrNotFound = errors.New("document not found")

	// ErrNotOwner means the acting user does not own the document.
	// Ownership is binary; there is no read-only tier.
	ErrNotOwner = errors.New("not authorized for this document")

	// ErrInvalidPlacements means the request did not carry a placement list.
	ErrInvalidPlacements = errors.New("signatures must be an array")
)

// MalformedSourceError means the stored original is not a parseable PDF.
// Fatal for the whole composition call; the parse diagnostic stays
// server-side.
type MalformedSourceError struct {
	Err error
}

func (e *MalformedSourceError) Error() string {
	return fmt.Sprintf("source is not a valid PDF: %v", e.Err)
}

func (e *MalformedSourceError) Unwrap() error { return e.Err }

// SerializationError means the composed document could not be written back
// out as a valid PDF. Fatal.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("failed to serialize signed PDF: %v", e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// StorageError wraps blob read/write failures. The caller may safely retry
// the entire complete call.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
