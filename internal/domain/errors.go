package domain

import "errors"

// Kind classifies every error the core surfaces to its boundary.
type Kind string

const (
	KindNotFound              Kind = "NOT_FOUND"
	KindConflict              Kind = "CONFLICT"
	KindBadRequest            Kind = "BAD_REQUEST"
	KindSeatConflict          Kind = "SEAT_CONFLICT"
	KindInsufficientInventory Kind = "INSUFFICIENT_INVENTORY"
	KindTransient             Kind = "TRANSIENT"
	KindInternal              Kind = "INTERNAL"
)

// Error is the stable {kind, message} pair crossing the API boundary.
// No stack traces or internal identifiers leak through it.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func NotFound(message string) *Error              { return NewError(KindNotFound, message) }
func Conflict(message string) *Error              { return NewError(KindConflict, message) }
func BadRequest(message string) *Error            { return NewError(KindBadRequest, message) }
func SeatConflict(message string) *Error          { return NewError(KindSeatConflict, message) }
func InsufficientInventory(message string) *Error { return NewError(KindInsufficientInventory, message) }
func Transient(message string) *Error             { return NewError(KindTransient, message) }
func Internal(message string) *Error              { return NewError(KindInternal, message) }

// KindOf returns the kind of err, or KindInternal for errors that did not
// originate in the core.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// ParseKind maps a wire-level code back to a kind, for errors received from
// a remote service.
func ParseKind(code string) (Kind, bool) {
	switch Kind(code) {
	case KindNotFound, KindConflict, KindBadRequest, KindSeatConflict,
		KindInsufficientInventory, KindTransient, KindInternal:
		return Kind(code), true
	}
	return KindInternal, false
}
