// Package console maps controller buttons onto the program control surface:
// start/stop, program switching, path visibility.
package console

import (
	"time"

	"github.com/sirupsen/logrus"

	stewart "github.com/Linc-hub/StewartSim"
	"github.com/Linc-hub/StewartSim/components/motion"
	"github.com/Linc-hub/StewartSim/input"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "console",
})

// Console polls the input source once per tick and fires edge-triggered
// actions. Held buttons fire once; the latches reset on release.
type Console struct {
	source input.Source
	motion *motion.Motion

	start Latch
	sel   Latch
	left  Latch
	right Latch
}

// Programs cycled through with the dpad, in order.
var cycle = []motion.ProgramID{
	motion.Wobble,
	motion.Rotate,
	motion.Tilt,
	motion.Square,
	motion.Breathe,
	motion.Eight,
	motion.Helical,
	motion.Gamepad,
}

func New(source input.Source, m *motion.Motion) *Console {
	return &Console{
		source: source,
		motion: m,
	}
}

func (c *Console) Boot() error {
	return nil
}

func (c *Console) Tick(now time.Time, state *stewart.State) error {
	s := c.source.Sample()

	// At any time, pressing start shuts down the platform.
	if c.start.Run(s.Buttons.Pressed(input.ButtonStart)) {
		log.Info("pressed START, shutting down")
		state.Shutdown = true
	}

	if c.sel.Run(s.Buttons.Pressed(input.ButtonSelect)) {
		c.motion.TogglePathVisible()
	}

	if c.right.Run(s.Buttons.Pressed(input.ButtonRight)) {
		c.motion.Start(string(c.step(+1)))
	}

	if c.left.Run(s.Buttons.Pressed(input.ButtonLeft)) {
		c.motion.Start(string(c.step(-1)))
	}

	return nil
}

// step returns the program adjacent to the active one in the cycle.
func (c *Console) step(dir int) motion.ProgramID {
	active := c.motion.ActiveID()
	for i, id := range cycle {
		if id == active {
			return cycle[((i+dir)%len(cycle)+len(cycle))%len(cycle)]
		}
	}
	return cycle[0]
}

// Latch turns a held button into a single edge.
type Latch struct {
	val bool
}

func (l *Latch) Run(v bool) bool {
	r := v && !l.val
	l.val = v
	return r
}
