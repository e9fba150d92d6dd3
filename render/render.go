// Package render defines the port through which solved frames leave the
// core. The actual mechanism renderer lives outside this repository; the
// core only pushes geometry through the Sink interface.
package render

import (
	"github.com/go-gl/mathgl/mgl64"

	stewart "github.com/Linc-hub/StewartSim"
	"github.com/Linc-hub/StewartSim/kinematics"
)

// Frame is everything a renderer needs from one solved tick. The joint
// slices are solver-owned scratch, valid only until the next tick; sinks
// that retain frames must copy them.
type Frame struct {
	Pose stewart.Pose

	BaseJoints     []mgl64.Vec3
	HornTips       []mgl64.Vec3
	PlatformJoints []mgl64.Vec3

	Angles []kinematics.Angle

	// Whether the active trajectory should be drawn.
	ShowPath bool
}

// Sink consumes one frame per tick.
type Sink interface {
	Frame(f Frame)
}

// Nop discards frames.
type Nop struct{}

func (Nop) Frame(Frame) {}
