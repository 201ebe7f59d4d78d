package semnote

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCommits is returned when the head has no reachable commit.
	ErrNoCommits = errors.New("no commits reachable from head")
	// ErrInvalidVersion is the kind wrapped by InvalidVersionError.
	ErrInvalidVersion = errors.New("invalid version")
	// ErrInvalidCountMethod is returned for an unrecognized counting policy.
	ErrInvalidCountMethod = errors.New("invalid count method")
	// ErrRepositoryAccess is the kind wrapped by RepositoryAccessError.
	ErrRepositoryAccess = errors.New("repository access failed")
)

// InvalidVersionError reports a set-version annotation whose payload is not a
// valid semantic version. Commit is empty when the text did not come from a commit.
type InvalidVersionError struct {
	Commit string
	Text   string
	Err    error
}

func (e *InvalidVersionError) Error() string {
	msg := fmt.Sprintf("%s %q", ErrInvalidVersion, e.Text)
	if e.Commit != "" {
		msg += " in note on commit " + e.Commit
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidVersionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidVersion}
	}
	return []error{ErrInvalidVersion, e.Err}
}

// RepositoryAccessError wraps an I/O failure of the underlying repository.
type RepositoryAccessError struct {
	Op  string
	Err error
}

func (e *RepositoryAccessError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrRepositoryAccess, e.Op, e.Err)
}

func (e *RepositoryAccessError) Unwrap() []error {
	return []error{ErrRepositoryAccess, e.Err}
}

func accessError(op string, err error) error {
	return &RepositoryAccessError{Op: op, Err: err}
}
