package games

import (
	"errors"
	"fmt"
)

// Rejection reasons shared by every game engine. An engine rejection
// never mutates state; handlers surface the message through the request's
// ack callback.
var (
	ErrNotHost       = errors.New("only the host can do that")
	ErrInvalidPhase  = errors.New("action not allowed in the current phase")
	ErrAlreadyLocked = errors.New("already submitted this round")
	ErrWordTaken     = errors.New("that word was already claimed this round")
	ErrPlaceFull     = errors.New("that place is already full")
	ErrOnCooldown    = errors.New("ability is still on cooldown")
	ErrValidation    = errors.New("invalid action payload")
	ErrDictionary    = errors.New("dictionary lookup unavailable")
	ErrUnknownAction = errors.New("unknown action")
)

// Validationf wraps ErrValidation with a human-readable reason.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}
