package vpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTriangle(t *testing.T) {
	segs, err := Parse("M0 0L10 0L10 10Z")
	assert.NoError(t, err)
	assert.Equal(t, []Segment{
		Move{X: 0, Y: 0},
		Line{X1: 0, Y1: 0, X2: 10, Y2: 0},
		Line{X1: 10, Y1: 0, X2: 10, Y2: 10},
		Line{X1: 10, Y1: 10, X2: 0, Y2: 0},
	}, segs)
}

func TestSmoothCubicReflection(t *testing.T) {
	segs, err := Parse("M0 0C1 1 2 2 3 3S5 5 6 6")
	assert.NoError(t, err)
	assert.Len(t, segs, 3)

	assert.Equal(t, Cubic{X0: 0, Y0: 0, X1: 1, Y1: 1, X2: 2, Y2: 2, X3: 3, Y3: 3}, segs[1])

	// The first control point of the S is the previous second control point
	// reflected about the cursor: (2*3-2, 2*3-2) = (4,4).
	assert.Equal(t, Cubic{X0: 3, Y0: 3, X1: 4, Y1: 4, X2: 5, Y2: 5, X3: 6, Y3: 6}, segs[2])
}

func TestSmoothCubicAfterNonCurve(t *testing.T) {
	segs, err := Parse("M0 0L1 1S5 5 6 6")
	assert.NoError(t, err)

	// No cubic to reflect; the control point collapses onto the cursor.
	assert.Equal(t, Cubic{X0: 1, Y0: 1, X1: 1, Y1: 1, X2: 5, Y2: 5, X3: 6, Y3: 6}, segs[2])
}

func TestSmoothQuadraticReflection(t *testing.T) {
	segs, err := Parse("M0 0Q1 2 3 0T6 0")
	assert.NoError(t, err)

	assert.Equal(t, Quadratic{X0: 0, Y0: 0, X1: 1, Y1: 2, X2: 3, Y2: 0}, segs[1])
	assert.Equal(t, Quadratic{X0: 3, Y0: 0, X1: 5, Y1: -2, X2: 6, Y2: 0}, segs[2])
}

func TestRelativeCommands(t *testing.T) {
	segs, err := Parse("m10 10l5 0v5h-5z")
	assert.NoError(t, err)
	assert.Equal(t, []Segment{
		Move{X: 10, Y: 10},
		Line{X1: 10, Y1: 10, X2: 15, Y2: 10},
		Line{X1: 15, Y1: 10, X2: 15, Y2: 15},
		Line{X1: 15, Y1: 15, X2: 10, Y2: 15},
		Line{X1: 10, Y1: 15, X2: 10, Y2: 10},
	}, segs)
}

func TestImplicitLineAfterMove(t *testing.T) {
	segs, err := Parse("M0 0 10 0 10 10")
	assert.NoError(t, err)
	assert.Equal(t, []Segment{
		Move{X: 0, Y: 0},
		Line{X1: 0, Y1: 0, X2: 10, Y2: 0},
		Line{X1: 10, Y1: 0, X2: 10, Y2: 10},
	}, segs)
}

func TestImplicitRelativeLineAfterMove(t *testing.T) {
	segs, err := Parse("m1 1 2 0")
	assert.NoError(t, err)
	assert.Equal(t, []Segment{
		Move{X: 1, Y: 1},
		Line{X1: 1, Y1: 1, X2: 3, Y2: 1},
	}, segs)
}

func TestArc(t *testing.T) {
	segs, err := Parse("M0 0A5 5 0 0 1 10 0")
	assert.NoError(t, err)
	assert.Equal(t, Arc{RX: 5, RY: 5, AxisRotation: 0, LargeArc: false, Sweep: true, X: 10, Y: 0}, segs[1])

	segs, err = Parse("M0 0a5 5 0 1 0 10 0")
	assert.NoError(t, err)
	assert.Equal(t, Arc{RX: 5, RY: 5, AxisRotation: 0, LargeArc: true, Sweep: false, X: 10, Y: 0}, segs[1])
}

func TestArcCompactFlags(t *testing.T) {
	// The flags are single digits and may abut the endpoint: 0110 0 reads
	// as large=0, sweep=1, x=10, y=0.
	segs, err := Parse("M0 0A5 5 0 0110 0")
	assert.NoError(t, err)
	assert.Equal(t, Arc{RX: 5, RY: 5, AxisRotation: 0, LargeArc: false, Sweep: true, X: 10, Y: 0}, segs[1])

	// All four fields squeezed together.
	segs, err = Parse("M0 0A5 5 0 1110 0")
	assert.NoError(t, err)
	assert.Equal(t, Arc{RX: 5, RY: 5, AxisRotation: 0, LargeArc: true, Sweep: true, X: 10, Y: 0}, segs[1])
}

func TestNumberForms(t *testing.T) {
	segs, err := Parse("M1e1 -.5L+2.5e-1 3.")
	assert.NoError(t, err)
	assert.Equal(t, Move{X: 10, Y: -0.5}, segs[0])
	assert.Equal(t, Line{X1: 10, Y1: -0.5, X2: 0.25, Y2: 3}, segs[1])
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		"10 10",                // number before any command
		"M0 0X5 5",             // unknown command
		"M0",                   // missing coordinate
		"M0 0C1 1 2",           // truncated curve
		"M0 0Z5 5",             // numbers after close
		"M0 0L1 1e",            // malformed exponent
		"M0 0A5 5 0 2 1 10 0",  // arc flag out of range
		"M0 0A5 5 0 -1 1 10 0", // arc flags take no sign
	}

	for _, src := range cases {
		segs, err := Parse(src)
		assert.Error(t, err, "input %q", src)
		assert.Nil(t, segs, "input %q", src)

		var perr *ParseError
		assert.ErrorAs(t, err, &perr, "input %q", src)
	}
}

func TestWholeStringFailure(t *testing.T) {
	// The prefix is valid, but one bad token rejects everything.
	segs, err := Parse("M0 0L10 0L10 10Lx y")
	assert.Error(t, err)
	assert.Nil(t, segs)
}
