// Package kinematics solves the inverse kinematics of the platform: given a
// desired pose, the angle each servo horn must take so that every rod still
// reaches its platform anchor.
package kinematics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	stewart "github.com/Linc-hub/StewartSim"
	"github.com/Linc-hub/StewartSim/geometry"
)

// ErrDegenerate is returned by Solve when the angle derivation divides by
// zero for some leg (horn length zero, or the leg axis collapsed onto the
// shaft). It is a hard error: the results of that solve must not be used.
var ErrDegenerate = errors.New("degenerate leg geometry")

// Angle is the solved angle of a single servo. OK is false when the leg
// cannot reach the commanded pose within the servo's range; Radians is only
// meaningful when OK is true.
type Angle struct {
	Radians float64
	OK      bool
}

// Solver computes horn angles for a fixed geometry. All per-leg buffers are
// allocated once and overwritten in place on every Solve, so the steady
// state is allocation-free and fit for a control loop.
type Solver struct {
	geom *geometry.Geometry

	// Scratch state, one entry per leg, rewritten by Solve (and, for
	// angles, by ServoAngles).
	q      []mgl64.Vec3 // platform joints in the base frame
	l      []mgl64.Vec3 // q minus the base joint
	horns  []mgl64.Vec3 // horn tip positions
	angles []Angle
}

func NewSolver(geom *geometry.Geometry) *Solver {
	n := len(geom.Legs)
	return &Solver{
		geom:   geom,
		q:      make([]mgl64.Vec3, n),
		l:      make([]mgl64.Vec3, n),
		horns:  make([]mgl64.Vec3, n),
		angles: make([]Angle, n),
	}
}

func (s *Solver) Geometry() *geometry.Geometry {
	return s.geom
}

// Solve positions every horn tip for the given pose.
//
// For each leg the platform anchor is rotated by the pose orientation and
// shifted by the translation plus the neutral height, giving q. With
// l = q - baseJoint, the horn angle alpha comes from the closed form of the
// rod-length constraint |l - horn*(cosB*cosA, sinB*cosA, sinA)| = rod:
//
//	g = l.l - rod^2 + horn^2
//	e = 2*horn*lz
//	f = 2*horn*(cosB*lx + sinB*ly)
//
// and sin/cos of alpha follow from g, e, f below. The sign pairing of the
// two terms picks the root that matches the physical horn orientation; do
// not reorder it. A negative discriminant (rod too short to bridge the gap)
// is clamped to zero, which lands the horn on the closest reachable
// boundary angle rather than failing the solve.
func (s *Solver) Solve(pose stewart.Pose) error {
	lift := mgl64.Vec3{0, 0, s.geom.NeutralHeight}
	horn := s.geom.HornLength
	rod := s.geom.RodLength

	for i := range s.geom.Legs {
		leg := &s.geom.Legs[i]

		s.q[i] = pose.Orientation.Rotate(leg.PlatformJoint).Add(pose.Translation).Add(lift)
		s.l[i] = s.q[i].Sub(leg.BaseJoint)

		l := s.l[i]
		g := l.Dot(l) - rod*rod + horn*horn
		e := 2 * horn * l.Z()
		f := 2 * horn * (leg.CosBeta*l.X() + leg.SinBeta*l.Y())

		denom := e*e + f*f
		if denom == 0 {
			return errors.Wrapf(ErrDegenerate, "leg %d", i)
		}

		root := math.Sqrt(math.Max(0, 1-g*g/denom))
		sqrtDenom := math.Sqrt(denom)

		sinA := g*e/denom - f*root/sqrtDenom
		cosA := g*f/denom + e*root/sqrtDenom

		s.horns[i] = leg.BaseJoint.Add(mgl64.Vec3{
			horn * cosA * leg.CosBeta,
			horn * cosA * leg.SinBeta,
			horn * sinA,
		})
	}

	return nil
}

// ServoAngles derives the servo angle of each leg from the horn tips of the
// most recent Solve. Legs whose angle is not a number, or falls outside the
// servo range, report OK=false; the other legs are unaffected. O(legs),
// allocation-free: the slice is solver-owned scratch, same ownership rules
// as HornTips.
func (s *Solver) ServoAngles() []Angle {
	for i := range s.geom.Legs {
		a := math.Asin((s.horns[i].Z() - s.geom.Legs[i].BaseJoint.Z()) / s.geom.HornLength)

		if math.IsNaN(a) || a < s.geom.ServoRangeMin || a > s.geom.ServoRangeMax {
			s.angles[i] = Angle{}
			continue
		}

		s.angles[i] = Angle{Radians: a, OK: true}
	}

	return s.angles
}

// HornTips returns the horn tip positions of the most recent Solve. The
// slice is solver-owned scratch; callers must not hold it across ticks.
func (s *Solver) HornTips() []mgl64.Vec3 {
	return s.horns
}

// PlatformJoints returns the platform anchors, in the base frame, of the
// most recent Solve. Same ownership rules as HornTips.
func (s *Solver) PlatformJoints() []mgl64.Vec3 {
	return s.q
}
