package world

import "fmt"

// InvalidIntentError is returned when an intent vector contains a value
// outside the five defined actions, per spec.md §7.
type InvalidIntentError struct {
	Index  int
	Intent int
}

func (e *InvalidIntentError) Error() string {
	return fmt.Sprintf("world: intent %d at drone index %d is not a valid action in [0,4]",
		e.Intent, e.Index)
}

// ShapeMismatchError is returned when the intent vector's length does not
// equal the number of drones in the world, per spec.md §7.
type ShapeMismatchError struct {
	Want, Have int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("world: intent vector has length %d, want %d", e.Have, e.Want)
}
