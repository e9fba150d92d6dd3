package stewart

import (
	"time"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "stewart",
})

// State is the per-frame mutable state of the platform. There is exactly one
// live instance, owned by the Platform, passed to every component on every
// tick. Components communicate with each other by mutating it.
type State struct {

	// The current pose of the top plate relative to the base, excluding the
	// fixed neutral height. Written by the motion component, read by anything
	// that renders or actuates.
	Pose Pose

	// Components can set this to true to indicate that the platform should
	// shut down at the end of the current tick.
	Shutdown bool

	// Whether the active trajectory (if any) should be drawn by the renderer.
	ShowPath bool
}

// Component is anything which is ticked once per frame.
type Component interface {
	Boot() error
	Tick(now time.Time, state *State) error
}

// Platform ties the components together and runs the frame loop.
type Platform struct {
	Components []Component
	State      State
}

func NewPlatform() *Platform {
	return &Platform{
		Components: []Component{},
		State: State{
			Pose: IdentityPose(),
		},
	}
}

// Add registers a component to receive ticks every frame.
func (p *Platform) Add(c Component) {
	p.Components = append(p.Components, c)
}

// Boot calls Boot on each component, aborting at the first error.
func (p *Platform) Boot() error {
	for _, c := range p.Components {
		if err := c.Boot(); err != nil {
			return err
		}
	}

	return nil
}

// Tick runs a single frame. Component errors are logged, not fatal; a failed
// tick holds the previous state rather than stopping the loop.
func (p *Platform) Tick(now time.Time) {
	for _, c := range p.Components {
		if err := c.Tick(now, &p.State); err != nil {
			log.Warnf("tick: %s", err)
		}
	}
}

// MainLoop ticks every component at the given interval until something sets
// State.Shutdown. Time is read here, at the edge, and passed down; nothing
// below this reads the clock.
func (p *Platform) MainLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for now := range ticker.C {
		p.Tick(now)

		if p.State.Shutdown {
			log.Info("shutdown requested")
			return
		}
	}
}
