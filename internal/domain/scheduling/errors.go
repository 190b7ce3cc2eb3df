package scheduling

import (
	"errors"
	"fmt"
	"strings"
)

// Failure kinds. Every structured error in this package unwraps to one of these,
// so callers can branch with errors.Is.
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidWindow       = errors.New("end must be after start")
	ErrInvalidRole         = errors.New("person does not have the expected role")
	ErrNotEligible         = errors.New("professional is not assigned to the service")
	ErrInvalidStatus       = errors.New("invalid appointment status")
	ErrAlreadyCancelled    = errors.New("appointment is already cancelled")
	ErrDuplicateAssignment = errors.New("professional is already assigned to the service")
	ErrOverlap             = errors.New("professional already has an appointment in this window")
)

var codes = map[error]string{
	ErrNotFound:            "not_found",
	ErrInvalidWindow:       "invalid_window",
	ErrInvalidRole:         "invalid_role",
	ErrNotEligible:         "not_eligible",
	ErrInvalidStatus:       "invalid_status",
	ErrAlreadyCancelled:    "already_cancelled",
	ErrDuplicateAssignment: "duplicate_assignment",
	ErrOverlap:             "overlap",
}

// Code returns a stable machine-readable code for a failure kind
func Code(kind error) string {
	if code, ok := codes[kind]; ok {
		return code
	}
	return "invalid"
}

// NotFoundError reports a referenced entity id that does not resolve
type NotFoundError struct {
	Entity string
	ID     any
}

func NewNotFound(entity string, id any) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// Violation is a single failed precondition on one field
type Violation struct {
	Kind  error
	Field string
	Value any
	// Detail overrides the kind's message when set
	Detail string
}

func (v *Violation) Error() string {
	msg := v.Kind.Error()
	if v.Detail != "" {
		msg = v.Detail
	}
	if v.Field == "" {
		return msg
	}
	return v.Field + ": " + msg
}

func (v *Violation) Unwrap() error {
	return v.Kind
}

// Code returns the machine-readable code of the violation kind
func (v *Violation) Code() string {
	return Code(v.Kind)
}

// ValidationError aggregates every violation found for one operation
type ValidationError struct {
	Violations []*Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() []error {
	errs := make([]error, len(e.Violations))
	for i, v := range e.Violations {
		errs[i] = v
	}
	return errs
}

// Has reports whether any violation is of the given kind
func (e *ValidationError) Has(kind error) bool {
	for _, v := range e.Violations {
		if errors.Is(v.Kind, kind) {
			return true
		}
	}
	return false
}

// Aggregate folds checker results into a *ValidationError, or nil when all passed.
// A *Violation is kept as is, a nested *ValidationError is flattened, and any other
// error is returned unchanged since it is not a precondition failure.
func Aggregate(errs ...error) error {
	var violations []*Violation
	for _, err := range errs {
		if err == nil {
			continue
		}
		var verr *ValidationError
		if errors.As(err, &verr) {
			violations = append(violations, verr.Violations...)
			continue
		}
		var v *Violation
		if errors.As(err, &v) {
			violations = append(violations, v)
			continue
		}
		return err
	}
	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: violations}
}
