package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates an attempt to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller is not allowed to access the resource.
var ErrForbidden = errors.New("access forbidden")

// ErrConflict indicates a write lost a race with a concurrent writer. The
// repository returns it when a conditional save finds the account revision
// already advanced; the transaction engine retries on it.
var ErrConflict = errors.New("concurrent modification conflict")
