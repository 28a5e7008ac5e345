package fetch

import (
	"context"
	"errors"
	"fmt"
)

// Kind categorizes a fetch failure.
type Kind int

const (
	KindTimeout Kind = iota
	KindNetwork
	KindMalformed
	KindServer
	KindAuthRequired
	KindValidation
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindNetwork:
		return "network"
	case KindMalformed:
		return "malformed"
	case KindServer:
		return "server"
	case KindAuthRequired:
		return "auth_required"
	case KindValidation:
		return "validation"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Error is a classified fetch failure.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports kind equality, so errors.Is(err, &Error{Kind: KindAuthRequired})
// matches any auth-required failure.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf maps err to its failure kind. Plain context errors map to
// KindCanceled and KindTimeout so callers can label outcomes uniformly.
func KindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled, true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout, true
	}
	return 0, false
}
