package trajectory

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"

	"github.com/Linc-hub/StewartSim/vpath"
)

func parse(t *testing.T, src string) []vpath.Segment {
	segs, err := vpath.Parse(src)
	assert.NoError(t, err)
	return segs
}

func TestBuildMoveAndLine(t *testing.T) {
	box := Box{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}
	tr := Build(parse(t, "M0 0L10 0"), box, 80)

	// Origin, pen-up lift, cross, descend, then the line. The 100x100 box
	// maps onto 80x80 centered on the origin with Y flipped, so path (0,0)
	// lands at (-40,40) and (10,0) at (-32,40).
	assert.Len(t, tr.Waypoints, 5)
	assert.Equal(t, mgl64.Vec3{0, 0, 0}, tr.Waypoints[0].Pos)
	assert.Equal(t, mgl64.Vec3{0, 0, 10}, tr.Waypoints[1].Pos)
	assert.Equal(t, mgl64.Vec3{-40, 40, 10}, tr.Waypoints[2].Pos)
	assert.Equal(t, mgl64.Vec3{-40, 40, 0}, tr.Waypoints[3].Pos)
	assert.Equal(t, mgl64.Vec3{-32, 40, 0}, tr.Waypoints[4].Pos)

	// Constant speed: time is distance over 0.05 units/ms.
	assert.Equal(t, 0.0, tr.Waypoints[0].TimeToNext)
	assert.InDelta(t, 10/0.05, tr.Waypoints[1].TimeToNext, 1e-9)
	assert.InDelta(t, math.Sqrt(1600+1600)/0.05, tr.Waypoints[2].TimeToNext, 1e-9)
	assert.InDelta(t, 10/0.05, tr.Waypoints[3].TimeToNext, 1e-9)
	assert.InDelta(t, 8/0.05, tr.Waypoints[4].TimeToNext, 1e-9)

	sum := 0.0
	for _, w := range tr.Waypoints {
		sum += w.TimeToNext
	}
	assert.InDelta(t, sum, tr.Duration, 1e-9)
}

func TestAtEndpoints(t *testing.T) {
	box := Box{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}
	tr := Build(parse(t, "M0 0L10 0"), box, 80)

	assert.Equal(t, tr.Waypoints[0].Pos, tr.At(0))
	assert.Equal(t, tr.Waypoints[0].Pos, tr.At(-1))
	last := tr.Waypoints[len(tr.Waypoints)-1].Pos
	assert.Equal(t, last, tr.At(1))
	assert.Equal(t, last, tr.At(2))
}

func TestAtInterpolatesWithinInterval(t *testing.T) {
	box := Box{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}
	tr := Build(parse(t, "M0 0L10 0"), box, 80)

	// 100ms in: halfway up the initial pen lift.
	pos := tr.At(100 / tr.Duration)
	assert.InDelta(t, 0, pos.X(), 1e-9)
	assert.InDelta(t, 0, pos.Y(), 1e-9)
	assert.InDelta(t, 5, pos.Z(), 1e-9)
}

func TestCurveSampling(t *testing.T) {
	box := Box{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}

	// One cubic after the move: 3 pen-up waypoints plus 50 curve samples.
	tr := Build(parse(t, "M0 0C0 10 10 10 10 0"), box, 10)
	assert.Len(t, tr.Waypoints, 1+3+50)

	// The curve lands exactly on its endpoint, (10,0) mapped to (5,5).
	last := tr.Waypoints[len(tr.Waypoints)-1].Pos
	assert.InDelta(t, 5, last.X(), 1e-9)
	assert.InDelta(t, 5, last.Y(), 1e-9)
	assert.InDelta(t, 0, last.Z(), 1e-9)
}

func TestArcStaysOnCircle(t *testing.T) {
	// Unit scale: a 10x10 box onto a size-10 field. A semicircle of radius
	// 5 from (0,0) to (10,0) has its center at path (5,0), field (0,5).
	box := Box{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	tr := Build(parse(t, "M0 0A5 5 0 0 1 10 0"), box, 10)

	center := mgl64.Vec3{0, 5, 0}
	for i := 4; i < len(tr.Waypoints); i++ {
		d := tr.Waypoints[i].Pos.Sub(center).Len()
		assert.InDelta(t, 5, d, 1e-9, "waypoint %d", i)
	}

	// And it lands exactly on the endpoint.
	last := tr.Waypoints[len(tr.Waypoints)-1].Pos
	assert.InDelta(t, 5, last.X(), 1e-9)
	assert.InDelta(t, 5, last.Y(), 1e-9)
}

func TestEmptyPath(t *testing.T) {
	tr := Build(nil, Box{MaxX: 1, MaxY: 1}, 10)
	assert.Len(t, tr.Waypoints, 1)
	assert.Equal(t, 0.0, tr.Duration)
	assert.Equal(t, tr.Waypoints[0].Pos, tr.At(0.5))
}

func TestDegenerateBox(t *testing.T) {
	// A zero-area box must not divide by zero; the scale falls back to 1.
	tr := Build(parse(t, "M0 0L3 0"), Box{}, 10)
	last := tr.Waypoints[len(tr.Waypoints)-1].Pos
	assert.InDelta(t, 3, last.X(), 1e-9)
}
