package nocodb

import (
	"errors"
	"fmt"
)

// ValidationError indicates an input that fails a precondition the caller
// could have checked beforehand (missing file, unsupported hash algorithm,
// malformed field value).
//
// Validation errors are always raised before any network or mutating call
// is issued, so a ValidationError guarantees nothing was changed remotely.
type ValidationError struct {
	// Message is a human-readable description of the failed precondition
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError indicates a requested entity (file, record, field or
// attachment index) does not exist.
type NotFoundError struct {
	// Kind names the entity category: "file", "record", "field", "attachment"
	Kind string

	// Key identifies the missing entity (path, record id, field name, index)
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Key)
}

// TransportError indicates a failure communicating with the NocoDB service.
//
// The underlying cause (connection refused, timeout, TLS failure) is wrapped
// and available via errors.Unwrap.
type TransportError struct {
	// Op is the logical operation that failed (e.g. "GET api/v2/tables/...")
	Op string

	// Err is the underlying transport failure
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// FilesystemError indicates a local read or write failure (permissions,
// disk full, destination not writable).
type FilesystemError struct {
	// Path is the local path involved in the failure
	Path string

	// Err is the underlying filesystem error
	Err error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("filesystem error on %s: %v", e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// APIError represents an error response from the NocoDB REST API.
//
// NocoDB reports failures as a JSON body of the form {"error": CODE,
// "message": text}. The code is preserved so callers can dispatch on it.
type APIError struct {
	// Code is the NocoDB error code (e.g. "RECORD_NOT_FOUND")
	Code string

	// Message is the error message returned by the server
	Message string

	// StatusCode is the HTTP status of the response
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsNotFound reports whether err represents a missing entity, either a
// local NotFoundError or a RECORD_NOT_FOUND response from the API.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return true
	}
	var api *APIError
	return errors.As(err, &api) && api.Code == "RECORD_NOT_FOUND"
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
