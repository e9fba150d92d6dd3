// Package motion is the animation timeline: it owns the catalog of motion
// programs, blends between them, and on every tick computes the pose of the
// moment and drives the kinematics solver with it.
package motion

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	stewart "github.com/Linc-hub/StewartSim"
	"github.com/Linc-hub/StewartSim/input"
	"github.com/Linc-hub/StewartSim/kinematics"
	"github.com/Linc-hub/StewartSim/render"
	"github.com/Linc-hub/StewartSim/trajectory"
	"github.com/Linc-hub/StewartSim/vpath"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "motion",
})

// ProgramID names a program in the registry.
type ProgramID string

// transition is the id of the synthetic program built by MoveTo. It is
// never in the registry; it exists only as the active program.
const transition ProgramID = "transition"

// Program is one entry of the motion catalog. Pose must be a pure function
// of the completion fraction (and, for live programs, the input sample).
type Program struct {

	// How long one run of the program takes. Zero means the program never
	// completes on its own (live input); it runs until replaced.
	DurationMs float64

	// The program to chain into when this one completes. Empty means hold
	// the final pose indefinitely.
	LoopsTo ProgramID

	// Whether the program traces a path worth drawing.
	Visible bool

	// Optional, called when the program becomes active.
	OnEnter func(m *Motion)

	Pose func(p float64, in input.Sample) stewart.Pose
}

// Actuator consumes solved angles, one call per tick. The servo pool
// implements this; tests inject fakes.
type Actuator interface {
	Apply(angles []kinematics.Angle) error
}

// Motion is the timeline component. All mutation happens inside Start,
// MoveTo and Tick; the design assumes one caller at a time.
type Motion struct {
	solver   *kinematics.Solver
	source   input.Source
	sink     render.Sink
	actuator Actuator

	programs map[ProgramID]Program
	aliases  map[string]ProgramID

	active   Program
	activeID ProgramID
	queued   ProgramID

	// Clock base for the active program. pending marks that the clock
	// should restart on the next tick (Start/MoveTo don't read time; the
	// tick supplies it).
	startTime time.Time
	pending   bool

	pose    stewart.Pose
	visible bool

	// Base joints never move; extracted once for the render frames.
	baseJoints []mgl64.Vec3
}

// New builds the timeline with the standard catalog and the default program
// active. The sink and actuator may be nil.
func New(solver *kinematics.Solver, source input.Source, sink render.Sink, actuator Actuator) *Motion {
	m := &Motion{
		solver:   solver,
		source:   source,
		sink:     sink,
		actuator: actuator,
		programs: catalog(),
		aliases:  aliases(),
		pose:     stewart.IdentityPose(),
		visible:  true,
	}

	for _, leg := range solver.Geometry().Legs {
		m.baseJoints = append(m.baseJoints, leg.BaseJoint)
	}

	m.enter(defaultProgram, time.Time{})
	return m
}

func (m *Motion) Boot() error {
	log.Infof("starting with program %q", m.activeID)
	return nil
}

// Pose returns the pose computed by the most recent tick.
func (m *Motion) Pose() stewart.Pose {
	return m.pose
}

// ActiveID returns the id of the active program.
func (m *Motion) ActiveID() ProgramID {
	return m.activeID
}

// Start switches to the named program, resolving single-letter aliases.
// Unknown names are a no-op with a diagnostic; the active program keeps
// running.
func (m *Motion) Start(name string) {
	id, ok := m.resolve(name)
	if !ok {
		log.Warnf("unknown program %q", name)
		return
	}

	m.enter(id, time.Time{})
}

// MoveTo blends from the pose of this instant to the target over durationMs:
// linear on translation, slerp on orientation. When the blend completes the
// timeline chains into next (or holds the target if next is empty).
func (m *Motion) MoveTo(target stewart.Pose, durationMs float64, next ProgramID) {
	from := m.pose

	m.active = Program{
		DurationMs: durationMs,
		LoopsTo:    next,
		Pose: func(p float64, _ input.Sample) stewart.Pose {
			return from.Blend(target, p)
		},
	}
	m.activeID = transition
	m.queued = next
	m.pending = true

	log.Infof("transition to %s over %.0fms, then %q", target, durationMs, next)
}

// RegisterPath parses a path string, flattens it into a trajectory, and
// registers it as a looping program under the given id. Orientation is held
// at identity throughout path-driven motion.
func (m *Motion) RegisterPath(id ProgramID, text string, box trajectory.Box, size float64) error {
	segs, err := vpath.Parse(text)
	if err != nil {
		return errors.Wrapf(err, "program %q", id)
	}

	traj := trajectory.Build(segs, box, size)

	m.programs[id] = Program{
		DurationMs: traj.Duration,
		LoopsTo:    id,
		Visible:    true,
		Pose: func(p float64, _ input.Sample) stewart.Pose {
			return stewart.MakePose(traj.At(p), mgl64.QuatIdent())
		},
	}

	log.Infof("registered path program %q: %d waypoints, %.0fms", id, len(traj.Waypoints), traj.Duration)
	return nil
}

// TogglePathVisible flips whether visible programs draw their trajectory.
func (m *Motion) TogglePathVisible() {
	m.visible = !m.visible
}

// Tick computes the pose of the moment, advances the timeline, and drives
// the solver. On solver failure the previous pose is held and the tick is
// reported failed.
func (m *Motion) Tick(now time.Time, state *stewart.State) error {
	if m.pending || m.startTime.IsZero() {
		m.startTime = now
		m.pending = false
	}

	var sample input.Sample
	if m.source != nil {
		sample = m.source.Sample()
	}

	p := 0.0
	if m.active.DurationMs > 0 {
		p = clamp(float64(now.Sub(m.startTime))/float64(time.Millisecond)/m.active.DurationMs, 0, 1)
	}

	pose := m.active.Pose(p, sample)

	// Chain into the queued program the moment this one completes. The
	// clock restarts at now, so looping is idempotent tick to tick.
	if p == 1 && m.active.DurationMs != 0 && m.queued != "" {
		m.enter(m.queued, now)
	}

	if err := m.solver.Solve(pose); err != nil {
		return errors.Wrap(err, "holding previous pose")
	}

	m.pose = pose
	state.Pose = pose
	state.ShowPath = m.visible && m.active.Visible

	angles := m.solver.ServoAngles()

	if m.sink != nil {
		m.sink.Frame(render.Frame{
			Pose:           pose,
			BaseJoints:     m.baseJoints,
			HornTips:       m.solver.HornTips(),
			PlatformJoints: m.solver.PlatformJoints(),
			Angles:         angles,
			ShowPath:       state.ShowPath,
		})
	}

	if m.actuator != nil {
		return m.actuator.Apply(angles)
	}

	return nil
}

// enter activates a registry program. A zero time restarts the clock on the
// next tick instead of immediately.
func (m *Motion) enter(id ProgramID, at time.Time) {
	prog, ok := m.programs[id]
	if !ok {
		log.Warnf("unknown program %q", id)
		return
	}

	if prog.OnEnter != nil {
		prog.OnEnter(m)
	}

	m.active = prog
	m.activeID = id
	m.queued = prog.LoopsTo

	if at.IsZero() {
		m.pending = true
	} else {
		m.startTime = at
	}
}

func (m *Motion) resolve(name string) (ProgramID, bool) {
	if _, ok := m.programs[ProgramID(name)]; ok {
		return ProgramID(name), true
	}
	if id, ok := m.aliases[name]; ok {
		return id, true
	}
	return "", false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
