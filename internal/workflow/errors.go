package workflow

import (
	"errors"
	"fmt"
)

// Kind discriminates expected business denials so the API layer can map each
// one to a distinct response. Store-level failures are not a Kind; they stay
// ordinary errors and surface as internal failures.
type Kind string

const (
	// KindNotFound means a referenced entity is absent (or hidden from the actor).
	KindNotFound Kind = "not_found"
	// KindForbidden means the actor lacks the role or ownership for the action.
	KindForbidden Kind = "forbidden"
	// KindInvalidState means the action is not legal from the entity's current status.
	KindInvalidState Kind = "invalid_state"
	// KindConflict means a uniqueness rule was violated (duplicate request/submission).
	KindConflict Kind = "conflict"
)

// Error is a business denial returned by the guard and the engine.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func InvalidState(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the denial kind from an error chain.
func KindOf(err error) (Kind, bool) {
	var wErr *Error
	if errors.As(err, &wErr) {
		return wErr.Kind, true
	}
	return "", false
}

// IsKind reports whether err is a denial of the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
