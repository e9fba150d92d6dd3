package input

import (
	"io"

	"github.com/adammck/sixaxis"
)

// Sixaxis adapts a DualShock controller (read from an event device) to the
// Source interface. The underlying reader runs in its own goroutine; Sample
// just snapshots its latest state.
type Sixaxis struct {
	sa *sixaxis.SA
}

func NewSixaxis(r io.Reader) *Sixaxis {
	return &Sixaxis{
		sa: sixaxis.New(r),
	}
}

// Run blocks, decoding controller events. Call in a goroutine.
func (s *Sixaxis) Run() {
	s.sa.Run()
}

func (s *Sixaxis) Sample() Sample {
	var b Buttons

	if s.sa.Start {
		b |= ButtonStart
	}
	if s.sa.Select {
		b |= ButtonSelect
	}
	if s.sa.Up > 0 {
		b |= ButtonUp
	}
	if s.sa.Down > 0 {
		b |= ButtonDown
	}
	if s.sa.Left > 0 {
		b |= ButtonLeft
	}
	if s.sa.Right > 0 {
		b |= ButtonRight
	}

	return Sample{
		Axes: [4]float64{
			float64(s.sa.LeftStick.X) / 127.0,
			float64(s.sa.LeftStick.Y) / 127.0,
			float64(s.sa.RightStick.X) / 127.0,
			float64(s.sa.RightStick.Y) / 127.0,
		},
		Buttons: b,
	}
}
