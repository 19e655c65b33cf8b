// Package validate rejects caller-supplied values before they reach process invocation.
package validate

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a validation failure.
type Kind string

const (
	KindInvalidArgument Kind = "invalid_argument"
	KindMissingArgument Kind = "missing_argument"
)

// Sentinels for errors.Is matching against an *Error's kind.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrMissingArgument = errors.New("missing argument")
)

// Error is returned for every rejected value.
type Error struct {
	Kind    Kind
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindInvalidArgument:
		return target == ErrInvalidArgument
	case KindMissingArgument:
		return target == ErrMissingArgument
	}
	return false
}

// deniedChars are shell metacharacters never accepted in identifier values,
// even though arguments are passed as a discrete argv.
const deniedChars = ";&|`$\\\n\r"

// SafeString fails if value contains a denied character. Empty values pass.
func SafeString(value, field string) error {
	if strings.ContainsAny(value, deniedChars) {
		return &Error{
			Kind:    KindInvalidArgument,
			Field:   field,
			Message: fmt.Sprintf("Parameter '%s' contains invalid characters: %s", field, value),
		}
	}
	return nil
}

// Required fails with KindMissingArgument when value is blank, then applies SafeString.
func Required(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return Missing(field)
	}
	return SafeString(value, field)
}

// Missing builds the error for an absent mandatory value.
func Missing(field string) error {
	return &Error{
		Kind:    KindMissingArgument,
		Field:   field,
		Message: fmt.Sprintf("Parameter '%s' is required", field),
	}
}

// Positive fails when n is zero or negative.
func Positive(n int, field string) error {
	if n <= 0 {
		return &Error{
			Kind:    KindInvalidArgument,
			Field:   field,
			Message: fmt.Sprintf("Parameter '%s' must be positive, got: %d", field, n),
		}
	}
	return nil
}

// Invalid builds a KindInvalidArgument error with a custom message.
func Invalid(field, format string, args ...any) error {
	return &Error{
		Kind:    KindInvalidArgument,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// Owner validates a repository owner name.
func Owner(owner string) error {
	if strings.TrimSpace(owner) == "" {
		return &Error{Kind: KindMissingArgument, Field: "owner", Message: "Repository owner cannot be null or empty"}
	}
	return SafeString(owner, "owner")
}

// Repo validates a repository name.
func Repo(repo string) error {
	if strings.TrimSpace(repo) == "" {
		return &Error{Kind: KindMissingArgument, Field: "repo", Message: "Repository name cannot be null or empty"}
	}
	return SafeString(repo, "repo")
}
