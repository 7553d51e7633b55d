package errs

import (
	"fmt"
	"strings"

	cr "github.com/cockroachdb/errors"
)

// Error kinds crossing the repository / usecase / adaptor boundaries.
var (
	ErrValidation        = cr.New("validation failed")
	ErrConflict          = cr.New("conflict")
	ErrInvalidTransition = cr.New("invalid status transition")
	ErrNotFound          = cr.New("not found")
	ErrForbidden         = cr.New("forbidden")
	ErrInfrastructure    = cr.New("infrastructure failure")
)

type Kind string

const (
	KindValidation        Kind = "validation"
	KindConflict          Kind = "conflict"
	KindInvalidTransition Kind = "invalid_transition"
	KindNotFound          Kind = "not_found"
	KindForbidden         Kind = "forbidden"
	KindInfrastructure    Kind = "infrastructure"
)

func Newf(format string, args ...any) error {
	return cr.Newf(format, args...)
}

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return cr.Wrapf(err, format, args...)
}

func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return cr.Mark(err, markErr)
}

// Validation builds a message-carrying validation error.
func Validation(format string, args ...any) error {
	return cr.Mark(cr.Newf(format, args...), ErrValidation)
}

func Conflict(format string, args ...any) error {
	return cr.Mark(cr.Newf(format, args...), ErrConflict)
}

func NotFound(format string, args ...any) error {
	return cr.Mark(cr.Newf(format, args...), ErrNotFound)
}

func Forbidden(format string, args ...any) error {
	return cr.Mark(cr.Newf(format, args...), ErrForbidden)
}

func InvalidTransition(err error) error {
	return cr.Mark(err, ErrInvalidTransition)
}

// Infrastructure wraps a low level failure. The message of the wrapped error
// is for logs only.
func Infrastructure(err error, msg string) error {
	return cr.Mark(cr.Wrap(err, msg), ErrInfrastructure)
}

// KindOf classifies err. Unmarked errors are infrastructure failures.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case cr.Is(err, ErrValidation):
		return KindValidation
	case cr.Is(err, ErrConflict):
		return KindConflict
	case cr.Is(err, ErrInvalidTransition):
		return KindInvalidTransition
	case cr.Is(err, ErrNotFound):
		return KindNotFound
	case cr.Is(err, ErrForbidden):
		return KindForbidden
	default:
		return KindInfrastructure
	}
}

func ExtractStackLines(err error, maxLines int) []string {
	if err == nil {
		return nil
	}
	s := fmt.Sprintf("%+v", err)
	lines := strings.Split(s, "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}
