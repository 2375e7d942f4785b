package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInUse indicates the resource is referenced by dependent rows
	// and cannot be deleted.
	ErrInUse = errors.New("resource in use")
	// ErrInvalidInput indicates a request that is well-formed but
	// semantically invalid, such as a manager assignment pointing at a
	// sales-role employee.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials indicates login failure. Deliberately the
	// same for unknown accounts, disabled accounts and bad passwords so
	// responses never leak which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)
