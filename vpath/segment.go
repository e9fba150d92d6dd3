// Package vpath parses the 2D vector-path mini-language used to describe
// trajectories for the top plate. The grammar is the familiar SVG path data
// subset: M/L/H/V/Z/C/S/Q/T/A, lowercase for relative coordinates.
package vpath

// Segment is one parsed path element. All coordinates are fully resolved to
// absolute values during parsing; no relative deltas survive.
type Segment interface {
	segment()
}

// Move lifts the pen and drops it at a new position, starting a sub-path.
type Move struct {
	X, Y float64
}

// Line is a straight stroke from (X1,Y1) to (X2,Y2). Closing a sub-path (Z)
// also emits a Line, back to the sub-path start.
type Line struct {
	X1, Y1 float64
	X2, Y2 float64
}

// Cubic is a cubic Bezier from (X0,Y0) to (X3,Y3) with control points
// (X1,Y1) and (X2,Y2).
type Cubic struct {
	X0, Y0 float64
	X1, Y1 float64
	X2, Y2 float64
	X3, Y3 float64
}

// Quadratic is a quadratic Bezier from (X0,Y0) to (X2,Y2) with control
// point (X1,Y1).
type Quadratic struct {
	X0, Y0 float64
	X1, Y1 float64
	X2, Y2 float64
}

// Arc is an elliptical arc in endpoint parameterization, ending at (X,Y).
type Arc struct {
	RX, RY       float64
	AxisRotation float64
	LargeArc     bool
	Sweep        bool
	X, Y         float64
}

func (Move) segment()      {}
func (Line) segment()      {}
func (Cubic) segment()     {}
func (Quadratic) segment() {}
func (Arc) segment()       {}
