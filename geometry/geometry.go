// Package geometry builds the fixed per-leg description of a Stewart
// platform from its physical parameters. Construction is pure: once built,
// a Geometry is never mutated.
package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

const numLegs = 6

// ErrInfeasible marks configuration errors: parameter sets which describe a
// mechanism that cannot physically exist. A Geometry is never returned
// alongside one.
var ErrInfeasible = errors.New("infeasible configuration")

// Leg is the fixed geometric description of a single leg: where its servo
// shaft sits on the base plate, where its rod anchors on the top plate, and
// the azimuthal direction (pan angle, beta) the servo horn sweeps around.
type Leg struct {
	BaseJoint     mgl64.Vec3
	PlatformJoint mgl64.Vec3
	PanAngle      float64

	// Cached trig of the pan angle. The solver evaluates these for every leg
	// on every frame, so they are computed once here.
	SinBeta float64
	CosBeta float64
}

// Params holds the layout-independent physical parameters.
type Params struct {

	// Fixed length of the rod connecting each horn tip to its platform
	// anchor, and of the servo horn itself.
	RodLength  float64
	HornLength float64

	// 0 places the horns at +90 degrees from the base joint direction,
	// 1 at +270 degrees (horns pointing the other way around the shaft).
	HornDirection int

	// The mechanical limits of the servos, in radians.
	ServoRangeMin float64
	ServoRangeMax float64

	// If AbsoluteHeight is set, NeutralHeight is used as-is. Otherwise the
	// neutral height is derived from the rod/horn lengths and leg 0's planar
	// offset.
	AbsoluteHeight bool
	NeutralHeight  float64
}

// Geometry is the complete built description of the mechanism.
type Geometry struct {
	Legs []Leg

	RodLength     float64
	HornLength    float64
	HornDirection int
	ServoRangeMin float64
	ServoRangeMax float64

	// The height of the top plate above the base when the commanded pose is
	// identity. Every solved pose is offset by this.
	NeutralHeight float64
}

// CircularParams describes the classic circular layout: both plates are
// circles, with joints placed in pairs at 60 degree intervals.
type CircularParams struct {
	BaseRadius     float64
	PlatformRadius float64

	// Angular gap (radians) between the two shafts of a pair on the base,
	// and between the two anchors of a pair on the platform.
	ShaftOffset  float64
	AnchorOffset float64
}

// HexagonalParams describes the hexagonal layout: each plate is a hexagon
// defined by an inner and outer radius, with joints offset along the edges.
type HexagonalParams struct {
	BaseRadius          float64
	BaseRadiusOuter     float64
	PlatformRadius      float64
	PlatformRadiusOuter float64

	// Distance from each edge midpoint to the joint, along the edge.
	ShaftDistance  float64
	AnchorDistance float64

	// Rotates the top plate by this many vertex positions, permuting which
	// platform edge each leg anchors to.
	PlatformTurn int
}

// Circular builds the 6-leg circular layout. Base and platform joints sit at
// i*60 degrees, nudged by half the shaft/anchor offset with alternating sign
// by leg parity, so the joints pair up. The pan angle is the base joint
// direction plus a quarter turn, flipped by HornDirection.
func Circular(p Params, c CircularParams) (*Geometry, error) {
	g := &Geometry{
		Legs:          make([]Leg, numLegs),
		RodLength:     p.RodLength,
		HornLength:    p.HornLength,
		HornDirection: p.HornDirection,
		ServoRangeMin: p.ServoRangeMin,
		ServoRangeMax: p.ServoRangeMax,
	}

	for i := 0; i < numLegs; i++ {
		pm := 1.0
		if i%2 == 1 {
			pm = -1.0
		}

		phi := float64(i) * math.Pi / 3
		phiB := phi + pm*c.ShaftOffset/2
		phiP := phi + pm*c.AnchorOffset/2

		beta := phiB + math.Pi/2
		if p.HornDirection == 1 {
			beta = phiB + 3*math.Pi/2
		}

		g.Legs[i] = makeLeg(
			mgl64.Vec3{c.BaseRadius * math.Cos(phiB), c.BaseRadius * math.Sin(phiB), 0},
			mgl64.Vec3{c.PlatformRadius * math.Cos(phiP), c.PlatformRadius * math.Sin(phiP), 0},
			beta,
		)
	}

	return finish(g, p)
}

// Hexagonal builds the 6-leg hexagonal layout. Each plate outline comes from
// hexPlate; each leg attaches near the midpoint of one plate edge, offset
// along the edge by the shaft/anchor distance with alternating sign. The pan
// angle is the direction of the base edge, flipped by HornDirection.
func Hexagonal(p Params, h HexagonalParams) (*Geometry, error) {
	g := &Geometry{
		Legs:          make([]Leg, numLegs),
		RodLength:     p.RodLength,
		HornLength:    p.HornLength,
		HornDirection: p.HornDirection,
		ServoRangeMin: p.ServoRangeMin,
		ServoRangeMax: p.ServoRangeMax,
	}

	base := hexPlate(h.BaseRadius, h.BaseRadiusOuter, 0)
	plat := hexPlate(h.PlatformRadius, h.PlatformRadiusOuter, 0)

	for i := 0; i < numLegs; i++ {
		pm := 1.0
		if i%2 == 1 {
			pm = -1.0
		}

		bj, edgeDir := edgeJoint(base, i, pm*h.ShaftDistance)

		// The top plate may be mounted rotated; anchor to the permuted edge.
		pi := ((i+h.PlatformTurn)%numLegs + numLegs) % numLegs
		pj, _ := edgeJoint(plat, pi, pm*h.AnchorDistance)

		beta := math.Atan2(edgeDir.Y(), edgeDir.X())
		if p.HornDirection == 1 {
			beta += math.Pi
		}

		g.Legs[i] = makeLeg(bj, pj, beta)
	}

	return finish(g, p)
}

// hexPlate returns the six corners of a hexagonal plate described by its
// inner and outer radius. Corner i sits at angle ((i - i%2)/3)*pi + rot,
// pushed alternately to either side by (2*ri - ro)/sqrt(3), which yields the
// elongated hexagon both plates are cut as.
func hexPlate(ri, ro, rot float64) []mgl64.Vec3 {
	corners := make([]mgl64.Vec3, numLegs)
	a2 := (2*ri - ro) / math.Sqrt(3)

	for i := 0; i < numLegs; i++ {
		phi := float64(i-i%2)/3*math.Pi + rot

		ap := a2
		if i%2 == 1 {
			ap = -a2
		}

		corners[i] = mgl64.Vec3{
			ro*math.Cos(phi) + ap*math.Sin(phi),
			ro*math.Sin(phi) - ap*math.Cos(phi),
			0,
		}
	}

	return corners
}

// edgeJoint returns the attachment point on the edge from corner i to corner
// i+1: the midpoint shifted along the edge by dist. It also returns the unit
// direction of the edge, which fixes the pan angle for base edges.
func edgeJoint(corners []mgl64.Vec3, i int, dist float64) (mgl64.Vec3, mgl64.Vec3) {
	a := corners[i]
	b := corners[(i+1)%len(corners)]

	mid := a.Add(b).Mul(0.5)
	dir := b.Sub(a).Normalize()

	return mid.Add(dir.Mul(dist)), dir
}

func makeLeg(baseJoint, platformJoint mgl64.Vec3, beta float64) Leg {
	return Leg{
		BaseJoint:     baseJoint,
		PlatformJoint: platformJoint,
		PanAngle:      beta,
		SinBeta:       math.Sin(beta),
		CosBeta:       math.Cos(beta),
	}
}

// finish validates the physical parameters and settles the neutral height.
func finish(g *Geometry, p Params) (*Geometry, error) {
	if g.RodLength <= 0 || g.HornLength <= 0 {
		return nil, errors.Wrapf(ErrInfeasible, "rod length %v, horn length %v", g.RodLength, g.HornLength)
	}

	if p.AbsoluteHeight {
		g.NeutralHeight = p.NeutralHeight
		return g, nil
	}

	h, err := deriveNeutralHeight(g)
	if err != nil {
		return nil, err
	}

	g.NeutralHeight = h
	return g, nil
}

// deriveNeutralHeight computes the resting height of the top plate: the
// vertical distance at which leg 0's rod and horn exactly bridge the planar
// offset between its base and platform joints. A negative radicand means the
// rod can never reach and the configuration is unbuildable.
func deriveNeutralHeight(g *Geometry) (float64, error) {
	dx := g.Legs[0].PlatformJoint.X() - g.Legs[0].BaseJoint.X()
	dy := g.Legs[0].PlatformJoint.Y() - g.Legs[0].BaseJoint.Y()

	radicand := g.RodLength*g.RodLength + g.HornLength*g.HornLength - dx*dx - dy*dy
	if radicand < 0 {
		return 0, errors.Wrapf(ErrInfeasible, "rod %v + horn %v cannot bridge planar offset %v",
			g.RodLength, g.HornLength, math.Sqrt(dx*dx+dy*dy))
	}

	return math.Sqrt(radicand), nil
}
