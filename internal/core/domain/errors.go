package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSubjectNotFound covers both a missing subject and a subject
	// owned by someone else; callers must not be able to tell the
	// difference.
	ErrSubjectNotFound  = errors.New("subject not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrTemporary        = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
