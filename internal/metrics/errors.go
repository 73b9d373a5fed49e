package metrics

import (
	"fmt"

	"github.com/trainrs/endurance-analytics/internal/domain"
)

// MissingThreshold is non-fatal at the engine level: the TSS selection
// policy advances to the next method when it sees this error.
type MissingThreshold struct {
	Kind string
}

func (e *MissingThreshold) Error() string {
	return fmt.Sprintf("missing threshold: %s", e.Kind)
}

// InvalidData means a method's inputs were unusable; fatal for that method.
type InvalidData struct {
	Reason string
}

func (e *InvalidData) Error() string { return fmt.Sprintf("invalid data: %s", e.Reason) }

// CalculationError means an invariant was violated while computing a
// result (e.g. TSS outside its sanity bounds, a non-finite intermediate).
type CalculationError struct {
	Reason string
}

func (e *CalculationError) Error() string { return fmt.Sprintf("calculation error: %s", e.Reason) }

// UnsupportedSport is returned when a method has no definition for a sport.
type UnsupportedSport struct {
	Sport domain.Sport
}

func (e *UnsupportedSport) Error() string {
	return fmt.Sprintf("unsupported sport: %s", e.Sport)
}

// ModelFittingError means a CP regression could not be solved (singular
// matrix, insufficient distinct-duration points).
type ModelFittingError struct {
	Reason string
}

func (e *ModelFittingError) Error() string { return fmt.Sprintf("model fitting error: %s", e.Reason) }
