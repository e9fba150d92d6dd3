// Package trajectory flattens parsed path segments into a timed sequence of
// 3D waypoints, and interpolates positions along it by completion fraction.
// Motion along the flattened path is constant linear speed.
package trajectory

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Linc-hub/StewartSim/vpath"
)

const (

	// Linear speed along the path, in field units per millisecond.
	speed = 0.05

	// Z of the pen while drawing, and while travelling between sub-paths.
	workHeight   = 0.0
	travelHeight = 10.0

	// Number of samples per Bezier segment.
	curveSteps = 50

	// Approximate arc length, in path units, of each arc subdivision step.
	arcStep = 2.0
)

// Waypoint is one timed sample of the path. TimeToNext is the time, in
// milliseconds, spent travelling from the previous waypoint to this one
// (zero for the first).
type Waypoint struct {
	Pos        mgl64.Vec3
	TimeToNext float64
}

// Trajectory is an ordered waypoint sequence with its total duration.
type Trajectory struct {
	Waypoints []Waypoint
	Duration  float64
}

// Box is the bounding box of the path in its own coordinate space. Build
// maps it onto a size*size field centered on the origin, preserving aspect
// ratio and flipping Y so that path-space "down" becomes field-space "-y".
type Box struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Build flattens the segments into waypoints. Moves travel pen-up: lift to
// travel height, cross over, descend back to work height. Everything else
// draws at work height.
func Build(segs []vpath.Segment, box Box, size float64) *Trajectory {
	b := &builder{box: box, size: size}
	b.points = append(b.points, mgl64.Vec3{0, 0, workHeight})

	for _, seg := range segs {
		switch s := seg.(type) {
		case vpath.Move:
			x, y := b.map2(s.X, s.Y)
			cur := b.points[len(b.points)-1]
			b.add(mgl64.Vec3{cur.X(), cur.Y(), travelHeight})
			b.add(mgl64.Vec3{x, y, travelHeight})
			b.add(mgl64.Vec3{x, y, workHeight})
			b.x, b.y = s.X, s.Y

		case vpath.Line:
			b.addPath(s.X2, s.Y2)

		case vpath.Cubic:
			for k := 1; k <= curveSteps; k++ {
				t := float64(k) / curveSteps
				mt := 1 - t
				x := mt*mt*mt*s.X0 + 3*mt*mt*t*s.X1 + 3*mt*t*t*s.X2 + t*t*t*s.X3
				y := mt*mt*mt*s.Y0 + 3*mt*mt*t*s.Y1 + 3*mt*t*t*s.Y2 + t*t*t*s.Y3
				b.addPath(x, y)
			}

		case vpath.Quadratic:
			for k := 1; k <= curveSteps; k++ {
				t := float64(k) / curveSteps
				mt := 1 - t
				x := mt*mt*s.X0 + 2*mt*t*s.X1 + t*t*s.X2
				y := mt*mt*s.Y0 + 2*mt*t*s.Y1 + t*t*s.Y2
				b.addPath(x, y)
			}

		case vpath.Arc:
			b.arc(s)
		}
	}

	return b.finish()
}

// At returns the interpolated position at completion fraction p in [0,1).
// The waypoint interval is found by walking cumulative time, then the
// position is linear within it.
func (t *Trajectory) At(p float64) mgl64.Vec3 {
	if len(t.Waypoints) == 0 {
		return mgl64.Vec3{}
	}
	if p <= 0 || t.Duration <= 0 {
		return t.Waypoints[0].Pos
	}

	target := p * t.Duration
	elapsed := 0.0

	for i := 1; i < len(t.Waypoints); i++ {
		step := t.Waypoints[i].TimeToNext
		if elapsed+step >= target && step > 0 {
			f := (target - elapsed) / step
			prev := t.Waypoints[i-1].Pos
			return prev.Add(t.Waypoints[i].Pos.Sub(prev).Mul(f))
		}
		elapsed += step
	}

	return t.Waypoints[len(t.Waypoints)-1].Pos
}

type builder struct {
	box  Box
	size float64

	// Flattened positions in field space, and the pen position in path
	// space (arcs need the un-mapped start point).
	points []mgl64.Vec3
	x, y   float64
}

func (b *builder) map2(x, y float64) (float64, float64) {
	w := b.box.MaxX - b.box.MinX
	h := b.box.MaxY - b.box.MinY

	s := 1.0
	if m := math.Max(w, h); m > 0 {
		s = b.size / m
	}

	cx := (b.box.MinX + b.box.MaxX) / 2
	cy := (b.box.MinY + b.box.MaxY) / 2

	return (x - cx) * s, (cy - y) * s
}

func (b *builder) add(p mgl64.Vec3) {
	b.points = append(b.points, p)
}

// addPath appends a pen-down waypoint given path-space coordinates.
func (b *builder) addPath(x, y float64) {
	fx, fy := b.map2(x, y)
	b.add(mgl64.Vec3{fx, fy, workHeight})
	b.x, b.y = x, y
}

// arc converts the endpoint parameterization to center parameterization
// (per the SVG elliptical arc algorithm) and subdivides by arc length.
func (b *builder) arc(s vpath.Arc) {
	x1, y1 := b.x, b.y
	x2, y2 := s.X, s.Y

	rx, ry := math.Abs(s.RX), math.Abs(s.RY)
	if rx == 0 || ry == 0 {
		b.addPath(x2, y2)
		return
	}

	phi := s.AxisRotation * math.Pi / 180
	cosPhi, sinPhi := math.Cos(phi), math.Sin(phi)

	// Step 1: midpoint in the rotated frame.
	dx, dy := (x1-x2)/2, (y1-y2)/2
	xp := cosPhi*dx + sinPhi*dy
	yp := -sinPhi*dx + cosPhi*dy

	// Step 2: scale the radii up if they cannot span the endpoints.
	lambda := xp*xp/(rx*rx) + yp*yp/(ry*ry)
	if lambda > 1 {
		k := math.Sqrt(lambda)
		rx *= k
		ry *= k
	}

	// Step 3: center in the rotated frame.
	num := rx*rx*ry*ry - rx*rx*yp*yp - ry*ry*xp*xp
	den := rx*rx*yp*yp + ry*ry*xp*xp
	co := math.Sqrt(math.Max(0, num/den))
	if s.LargeArc == s.Sweep {
		co = -co
	}
	cxp := co * rx * yp / ry
	cyp := -co * ry * xp / rx

	// Step 4: center in path space.
	cx := cosPhi*cxp - sinPhi*cyp + (x1+x2)/2
	cy := sinPhi*cxp + cosPhi*cyp + (y1+y2)/2

	// Step 5: start angle and signed sweep.
	theta1 := math.Atan2((yp-cyp)/ry, (xp-cxp)/rx)
	theta2 := math.Atan2((-yp-cyp)/ry, (-xp-cxp)/rx)
	delta := theta2 - theta1
	if !s.Sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if s.Sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	steps := int(math.Ceil(math.Abs(delta) * math.Max(rx, ry) / arcStep))
	if steps < 1 {
		steps = 1
	}

	for k := 1; k < steps; k++ {
		theta := theta1 + delta*float64(k)/float64(steps)
		ex := rx * math.Cos(theta)
		ey := ry * math.Sin(theta)
		b.addPath(cosPhi*ex-sinPhi*ey+cx, sinPhi*ex+cosPhi*ey+cy)
	}

	// Land exactly on the endpoint, not on the last subdivision sample.
	b.addPath(x2, y2)
}

func (b *builder) finish() *Trajectory {
	t := &Trajectory{
		Waypoints: make([]Waypoint, len(b.points)),
	}

	for i, p := range b.points {
		w := Waypoint{Pos: p}
		if i > 0 {
			w.TimeToNext = p.Sub(b.points[i-1]).Len() / speed
		}
		t.Waypoints[i] = w
		t.Duration += w.TimeToNext
	}

	return t
}
