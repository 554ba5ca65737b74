package libris

import "errors"

var (
	// ErrValidation is returned when required input is missing or malformed
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when a principal is not the record owner
	ErrForbidden = errors.New("forbidden")
	// ErrCredentials is returned when login credentials do not match
	ErrCredentials = errors.New("invalid credentials")
	// ErrStorage is returned when a remote object store operation fails
	ErrStorage = errors.New("object storage failure")
	// ErrPersistence is returned when a metadata store operation fails
	ErrPersistence = errors.New("metadata store failure")
	// ErrPayload is returned when an upload violates multipart constraints
	ErrPayload = errors.New("invalid upload payload")
)
