package unosim

import (
	"fmt"

	"github.com/pkg/errors"
)

var ErrInvalidCardColor = errors.New("invalid card color")
var ErrInvalidCardNumber = errors.New("invalid card number")
var ErrInvalidCardKind = errors.New("invalid card kind")

// InvariantError is the panic value raised when a caller bypasses the engine's
// validation, e.g. playing a card that is not in the playable set. These are contract
// violations and are never returned as regular errors.
type InvariantError struct {
	Op     string
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated in %s: %s", e.Op, e.Reason)
}

// Invariantf panics with an *InvariantError.
func Invariantf(op string, format string, args ...interface{}) {
	panic(&InvariantError{Op: op, Reason: fmt.Sprintf(format, args...)})
}

// AsInvariantError extracts the *InvariantError from a recovered panic value.
func AsInvariantError(recovered interface{}) (*InvariantError, bool) {
	switch v := recovered.(type) {
	case *InvariantError:
		return v, true
	case error:
		var invErr *InvariantError
		if errors.As(v, &invErr) {
			return invErr, true
		}
	}
	return nil, false
}
