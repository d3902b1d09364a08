package domain

import (
	"errors"
	"fmt"
)

// ErrValidation is the root of every request validation error.
// Callers use errors.Is(err, ErrValidation) to map to a client error.
var ErrValidation = errors.New("invalid scheduling request")

var (
	ErrInvalidTimeWindow         = fmt.Errorf("%w: window end must be after start", ErrValidation)
	ErrInvalidTimeOfDay          = fmt.Errorf("%w: time of day must be between 00:00 and 24:00", ErrValidation)
	ErrInvalidDuration           = fmt.Errorf("%w: duration must be positive", ErrValidation)
	ErrInvalidSearchRange        = fmt.Errorf("%w: search end must not be before search start", ErrValidation)
	ErrSearchRangeTooLarge       = fmt.Errorf("%w: search range exceeds maximum horizon", ErrValidation)
	ErrInvalidRecurring          = fmt.Errorf("%w: recurring constraint start and end must differ", ErrValidation)
	ErrUnknownMood               = fmt.Errorf("%w: unknown mood", ErrValidation)
	ErrUnknownEnergyPeriod       = fmt.Errorf("%w: unknown energy period", ErrValidation)
	ErrUnknownEventStatus        = fmt.Errorf("%w: unknown event status", ErrValidation)
	ErrUnknownTemporalConstraint = fmt.Errorf("%w: unknown temporal constraint", ErrValidation)
)
