// Package input defines the port through which live human input reaches the
// motion layer. The core never polls devices itself; a Source is injected
// and sampled once per tick.
package input

// Buttons is a bitmask of pressed controller buttons.
type Buttons uint16

const (
	ButtonStart Buttons = 1 << iota
	ButtonSelect
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

func (b Buttons) Pressed(mask Buttons) bool {
	return b&mask != 0
}

// Sample is one instantaneous reading of all input surfaces. Analog values
// are normalized to [-1, 1].
type Sample struct {

	// Pointer position, normalized to [-1, 1] over the pointing surface.
	PointerX float64
	PointerY float64

	// Controller axes: left stick X/Y, right stick X/Y.
	Axes [4]float64

	Buttons Buttons
}

// Source supplies samples. Implementations own their device I/O; Sample
// must be cheap and non-blocking, returning the most recent state.
type Source interface {
	Sample() Sample
}
