package density

import (
	"errors"
	"fmt"
)

// Sentinel errors for the three classes of construction-time failure named
// in spec.md §7, plus ErrUnknownTag, which evaluation returns for a
// component tag it has no case for. Callers match with errors.Is; positional context is added
// with fmt.Errorf's %w at the point of detection.
var (
	ErrCyclicInput     = errors.New("density: cyclic or forward input reference")
	ErrIndexOutOfBounds = errors.New("density: input index out of bounds")
	ErrInvalidEnvelope  = errors.New("density: empty or non-finite envelope")
	ErrUnknownRoot      = errors.New("density: unknown named root")
	ErrUnknownTag       = errors.New("density: unevaluable component tag")
)

func errCyclicInput(component, input int) error {
	return fmt.Errorf("component %d references input %d: %w", component, input, ErrCyclicInput)
}

func errIndexOutOfBounds(component, input, stackLen int) error {
	return fmt.Errorf("component %d references input %d, stack length %d: %w", component, input, stackLen, ErrIndexOutOfBounds)
}

func errInvalidEnvelope(component int, min, max float64) error {
	return fmt.Errorf("component %d has envelope [%v, %v]: %w", component, min, max, ErrInvalidEnvelope)
}

func errUnknownRoot(name string) error {
	return fmt.Errorf("root %q: %w", name, ErrUnknownRoot)
}

func errUnknownTag(tag Tag) error {
	return fmt.Errorf("tag %s: %w", tag, ErrUnknownTag)
}
