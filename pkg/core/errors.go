package core

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across stages.
var (
	// ErrTableNotFound is returned when a model's backing table does not exist.
	ErrTableNotFound = errors.New("table not found")
	// ErrNotModel is returned when a type does not embed a base model.
	ErrNotModel = errors.New("not a model")
	// ErrTypeNotFound is returned when a type declaration cannot be located.
	ErrTypeNotFound = errors.New("type not found")
	// ErrUnterminatedBlock is returned when a generated block has a begin marker but no end marker.
	ErrUnterminatedBlock = errors.New("unterminated generated block")
)

// ErrorKind classifies a failure by the stage that produced it.
type ErrorKind int

// Error kinds.
const (
	// KindUserInput covers invalid options and unresolvable targets.
	KindUserInput ErrorKind = iota + 1
	// KindDiscovery covers files that cannot be loaded.
	KindDiscovery
	// KindSchema covers missing tables and metadata query failures.
	KindSchema
	// KindWrite covers failures rewriting a source file.
	KindWrite
)

// String returns the string representation of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindUserInput:
		return "user input"
	case KindDiscovery:
		return "discovery"
	case KindSchema:
		return "schema"
	case KindWrite:
		return "write"
	default:
		return "unknown"
	}
}

// Error is a classified failure attached to a target (a model, file or namespace).
type Error struct {
	Kind   ErrorKind
	Target string
	Err    error
}

// NewError wraps err with a kind and target.
func NewError(kind ErrorKind, target string, err error) *Error {
	return &Error{Kind: kind, Target: target, Err: err}
}

func (e *Error) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s error for %s: %v", e.Kind, e.Target, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
