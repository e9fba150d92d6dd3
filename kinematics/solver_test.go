package kinematics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"

	stewart "github.com/Linc-hub/StewartSim"
	"github.com/Linc-hub/StewartSim/geometry"
)

func defaultGeometry(t *testing.T) *geometry.Geometry {
	g, err := geometry.Circular(geometry.Params{
		RodLength:     130,
		HornLength:    50,
		ServoRangeMin: -math.Pi / 2,
		ServoRangeMax: math.Pi / 2,
	}, geometry.CircularParams{
		BaseRadius:     80,
		PlatformRadius: 50,
		ShaftOffset:    20 * math.Pi / 180,
		AnchorOffset:   20 * math.Pi / 180,
	})
	assert.NoError(t, err)
	return g
}

// makeLeg builds a leg by hand for the degenerate-case tests.
func makeLeg(base, platform mgl64.Vec3, beta float64) geometry.Leg {
	return geometry.Leg{
		BaseJoint:     base,
		PlatformJoint: platform,
		PanAngle:      beta,
		SinBeta:       math.Sin(beta),
		CosBeta:       math.Cos(beta),
	}
}

func TestNeutralPoseIsSymmetric(t *testing.T) {
	s := NewSolver(defaultGeometry(t))
	assert.NoError(t, s.Solve(stewart.IdentityPose()))

	geom := s.Geometry()

	// Every leg spans the same distance at the neutral pose.
	var first float64
	for i := range geom.Legs {
		l := s.PlatformJoints()[i].Sub(geom.Legs[i].BaseJoint).Len()
		if i == 0 {
			first = l
			continue
		}
		assert.InDelta(t, first, l, 1e-9, "leg %d", i)
	}

	// Rotational symmetry: legs 0/2/4 are 120 degree copies of each other,
	// as are 1/3/5.
	angles := s.ServoAngles()
	for i, a := range angles {
		assert.True(t, a.OK, "leg %d", i)
	}
	assert.InDelta(t, angles[0].Radians, angles[2].Radians, 1e-9)
	assert.InDelta(t, angles[0].Radians, angles[4].Radians, 1e-9)
	assert.InDelta(t, angles[1].Radians, angles[3].Radians, 1e-9)
	assert.InDelta(t, angles[1].Radians, angles[5].Radians, 1e-9)
}

func TestSolveSatisfiesRodLength(t *testing.T) {
	s := NewSolver(defaultGeometry(t))

	pose := stewart.MakePose(
		mgl64.Vec3{5, 3, 8},
		mgl64.QuatRotate(0.1, mgl64.Vec3{0, 0, 1}).Mul(mgl64.QuatRotate(0.08, mgl64.Vec3{1, 0, 0})),
	)
	assert.NoError(t, s.Solve(pose))

	// The horn tip must sit exactly one rod length from the platform
	// anchor whenever the pose is reachable.
	for i := range s.Geometry().Legs {
		d := s.PlatformJoints()[i].Sub(s.HornTips()[i]).Len()
		assert.InDelta(t, 130, d, 1e-6, "leg %d", i)
	}
}

func TestHornTipStaysOnHornCircle(t *testing.T) {
	s := NewSolver(defaultGeometry(t))
	assert.NoError(t, s.Solve(stewart.IdentityPose()))

	for i, leg := range s.Geometry().Legs {
		d := s.HornTips()[i].Sub(leg.BaseJoint).Len()
		assert.InDelta(t, 50, d, 1e-9, "leg %d", i)
	}
}

func TestPartialInfeasibility(t *testing.T) {
	// Two legs with identical local geometry but opposite pan angles: the
	// same translation drives one inside the range and one outside.
	g := &geometry.Geometry{
		Legs: []geometry.Leg{
			makeLeg(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, 0}, 0),
			makeLeg(mgl64.Vec3{3, 0, 0}, mgl64.Vec3{3, 0, 0}, math.Pi),
		},
		RodLength:     5,
		HornLength:    1,
		ServoRangeMin: -math.Pi / 2,
		ServoRangeMax: 0.5,
		NeutralHeight: math.Sqrt(26),
	}

	s := NewSolver(g)
	assert.NoError(t, s.Solve(stewart.MakePose(mgl64.Vec3{2, 0, 0}, mgl64.QuatIdent())))

	angles := s.ServoAngles()
	assert.True(t, angles[0].OK)
	assert.InDelta(t, 0.206, angles[0].Radians, 1e-3)

	// Same leg mirrored: the solve picks the other branch, past the range.
	assert.False(t, angles[1].OK)
	assert.Equal(t, 0.0, angles[1].Radians)
}

func TestServoAnglesReuseScratch(t *testing.T) {
	s := NewSolver(defaultGeometry(t))
	assert.NoError(t, s.Solve(stewart.IdentityPose()))

	// Repeated calls rewrite the same buffer instead of allocating, and
	// stale entries from a previous call never leak through.
	a := s.ServoAngles()
	b := s.ServoAngles()
	assert.Same(t, &a[0], &b[0])

	assert.NoError(t, s.Solve(stewart.MakePose(mgl64.Vec3{5, 3, 8}, mgl64.QuatIdent())))
	for i, angle := range s.ServoAngles() {
		assert.True(t, angle.OK, "leg %d", i)
	}
}

func TestDegenerateLeg(t *testing.T) {
	// The platform anchor sits exactly perpendicular to the horn plane, so
	// both projections vanish and the angle is undefined.
	g := &geometry.Geometry{
		Legs: []geometry.Leg{
			makeLeg(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 5, 0}, 0),
		},
		RodLength:     5,
		HornLength:    1,
		ServoRangeMin: -math.Pi / 2,
		ServoRangeMax: math.Pi / 2,
	}

	s := NewSolver(g)
	err := s.Solve(stewart.IdentityPose())
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestClampedDiscriminantYieldsBoundary(t *testing.T) {
	// The rod is far too short to reach: the discriminant clamps to zero
	// and the resulting pseudo-angle fails the asin, reporting infeasible
	// instead of erroring the whole solve.
	g := &geometry.Geometry{
		Legs: []geometry.Leg{
			makeLeg(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, 0}, 0),
		},
		RodLength:     5,
		HornLength:    1,
		ServoRangeMin: -math.Pi / 2,
		ServoRangeMax: math.Pi / 2,
		NeutralHeight: 10,
	}

	s := NewSolver(g)
	assert.NoError(t, s.Solve(stewart.IdentityPose()))

	angles := s.ServoAngles()
	assert.False(t, angles[0].OK)
}
