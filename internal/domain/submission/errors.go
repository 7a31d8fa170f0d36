package submission

import "errors"

// ErrInvalidTransition is returned when a trigger is not permitted in the current state
var ErrInvalidTransition = errors.New("invalid submission transition")
