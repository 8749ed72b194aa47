package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Lifecycle error sentinels. Every failure produced by the engagement
// lifecycle wraps exactly one of these, so callers can render specific
// guidance without string matching.
var (
	ErrValidation        = errors.New("validation failed")
	ErrAuthorization     = errors.New("not allowed to perform this operation")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("resource conflict")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrPolicy            = errors.New("policy requirement not met")
)

// Lifecycle error constructors

func NewValidationError(field, reason string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrValidation,
		Details:    reason,
		Field:      field,
	}
}

func NewAuthorizationError(reason string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		err:        ErrAuthorization,
		Details:    reason,
	}
}

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
	}
}

func NewConflictError(reason string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        ErrConflict,
		Details:    reason,
	}
}

// NewStaleWriteError reports an optimistic-concurrency failure: the entity
// changed between read and write. It is a conflict for errors.Is purposes.
func NewStaleWriteError(entity string, expectedVersion int) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        ErrConflict,
		Details:    fmt.Sprintf("%s was modified concurrently (expected version %d)", entity, expectedVersion),
		Field:      "version",
	}
}

func NewInvalidTransitionError(entity, from, to string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnprocessableEntity,
		err:        ErrInvalidTransition,
		Details:    fmt.Sprintf("%s cannot move from %q to %q", entity, from, to),
	}
}

func NewPolicyError(reason string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusPreconditionFailed,
		err:        ErrPolicy,
		Details:    reason,
	}
}

// Lifecycle error type checkers

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsAuthorization(err error) bool {
	return errors.Is(err, ErrAuthorization)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}

func IsPolicy(err error) bool {
	return errors.Is(err, ErrPolicy)
}
