package motion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	stewart "github.com/Linc-hub/StewartSim"
	"github.com/Linc-hub/StewartSim/input"
)

// The built-in programs. Path-derived programs join the registry at runtime
// via RegisterPath.
const (
	Rotate  ProgramID = "rotate"
	Tilt    ProgramID = "tilt"
	Square  ProgramID = "square"
	Wobble  ProgramID = "wobble"
	Breathe ProgramID = "breathe"
	Eight   ProgramID = "eight"
	Helical ProgramID = "helical"
	Gamepad ProgramID = "gamepad"
)

const defaultProgram = Wobble

const (

	// Motion amplitudes. Translation in field units, angles in radians.
	// Kept well inside the reachable envelope of the default geometry so
	// the catalog never trips the servo range on its own.
	rotateAngle   = 0.35
	tiltAngle     = 0.25
	squareSide    = 24.0
	squareBump    = 10.0
	breatheLift   = 14.0
	eightWidth    = 22.0
	eightDepth    = 14.0
	helicalTurns  = 3.0
	helicalRadius = 12.0
	helicalDrop   = 20.0

	// Live-input scaling: full stick deflection in translation units and
	// tilt radians, matching the feel of the procedural programs.
	padTranslate = 20.0
	padLift      = 10.0
	padTilt      = 0.2
)

var (
	xAxis = mgl64.Vec3{1, 0, 0}
	yAxis = mgl64.Vec3{0, 1, 0}
	zAxis = mgl64.Vec3{0, 0, 1}
)

// catalog returns the built-in program registry. Every pose function is
// pure over (fraction, sample).
func catalog() map[ProgramID]Program {
	return map[ProgramID]Program{

		// One full oscillation of the top plate around the vertical axis.
		Rotate: {
			DurationMs: 8000,
			LoopsTo:    Rotate,
			Pose:       rotatePose,
		},

		// Four phases: lean over the x axis and back, then the y axis and
		// back.
		Tilt: {
			DurationMs: 8000,
			LoopsTo:    Tilt,
			Pose:       tiltPose,
		},

		// A closed rectangle with a height bump on each edge; a trajectory
		// in miniature, interpolated over four explicit corners.
		Square: {
			DurationMs: 6000,
			LoopsTo:    Square,
			Visible:    true,
			Pose:       squarePose,
		},

		// The rim of the plate traces a circle while the center stays put.
		Wobble: {
			DurationMs: 3000,
			LoopsTo:    Wobble,
			Pose:       wobblePose,
		},

		// Slow vertical oscillation.
		Breathe: {
			DurationMs: 5000,
			LoopsTo:    Breathe,
			Pose:       breathePose,
		},

		// A horizontal Lissajous figure-eight.
		Eight: {
			DurationMs: 7000,
			LoopsTo:    Eight,
			Visible:    true,
			Pose:       eightPose,
		},

		// Spiral downwards, then start over from the top.
		Helical: {
			DurationMs: 9000,
			LoopsTo:    Helical,
			Pose:       helicalPose,
		},

		// Live teleoperation. Never completes; the pose tracks whatever the
		// injected input source reports each tick.
		Gamepad: {
			DurationMs: 0,
			OnEnter: func(m *Motion) {
				m.pose = stewart.IdentityPose()
			},
			Pose: gamepadPose,
		},
	}
}

// aliases maps the single-key control surface onto program ids.
func aliases() map[string]ProgramID {
	return map[string]ProgramID{
		"r": Rotate,
		"t": Tilt,
		"q": Square,
		"w": Wobble,
		"b": Breathe,
		"8": Eight,
		"e": Eight,
		"h": Helical,
		"g": Gamepad,
	}
}

func rotatePose(p float64, _ input.Sample) stewart.Pose {
	angle := rotateAngle * math.Sin(2*math.Pi*p)
	return stewart.MakePose(mgl64.Vec3{}, mgl64.QuatRotate(angle, zAxis))
}

func tiltPose(p float64, _ input.Sample) stewart.Pose {
	phase := int(p * 4)
	if phase > 3 {
		phase = 3
	}
	f := p*4 - float64(phase)

	var axis mgl64.Vec3
	var angle float64

	switch phase {
	case 0:
		axis, angle = xAxis, f*tiltAngle
	case 1:
		axis, angle = xAxis, (1-f)*tiltAngle
	case 2:
		axis, angle = yAxis, f*tiltAngle
	case 3:
		axis, angle = yAxis, (1-f)*tiltAngle
	}

	return stewart.MakePose(mgl64.Vec3{}, mgl64.QuatRotate(angle, axis))
}

func squarePose(p float64, _ input.Sample) stewart.Pose {
	corners := [4]mgl64.Vec3{
		{+squareSide, +squareSide, 0},
		{-squareSide, +squareSide, 0},
		{-squareSide, -squareSide, 0},
		{+squareSide, -squareSide, 0},
	}

	edge := int(p * 4)
	if edge > 3 {
		edge = 3
	}
	f := p*4 - float64(edge)

	a := corners[edge]
	b := corners[(edge+1)%4]

	pos := a.Add(b.Sub(a).Mul(f))
	pos[2] = squareBump * math.Sin(math.Pi*f)

	return stewart.MakePose(pos, mgl64.QuatIdent())
}

func wobblePose(p float64, _ input.Sample) stewart.Pose {
	phi := 2 * math.Pi * p

	// Deliberately non-unit: the large real part sets the wobble amplitude,
	// and normalizing afterwards yields the tilt quaternion.
	q := mgl64.Quat{
		W: -13,
		V: mgl64.Vec3{-math.Cos(phi), math.Sin(phi), 0},
	}.Normalize()

	return stewart.MakePose(mgl64.Vec3{}, q)
}

func breathePose(p float64, _ input.Sample) stewart.Pose {
	z := breatheLift * (1 - math.Cos(2*math.Pi*p)) / 2
	return stewart.MakePose(mgl64.Vec3{0, 0, z}, mgl64.QuatIdent())
}

func eightPose(p float64, _ input.Sample) stewart.Pose {
	t := 2 * math.Pi * p
	return stewart.MakePose(mgl64.Vec3{
		eightWidth * math.Sin(2*t),
		eightDepth * math.Sin(t),
		0,
	}, mgl64.QuatIdent())
}

func helicalPose(p float64, _ input.Sample) stewart.Pose {
	phi := 2 * math.Pi * helicalTurns * p
	return stewart.MakePose(mgl64.Vec3{
		helicalRadius * math.Cos(phi),
		helicalRadius * math.Sin(phi),
		helicalDrop * (0.5 - p),
	}, mgl64.QuatIdent())
}

// gamepadPose maps the live sample straight onto a pose: left stick (or
// pointer) translates, dpad lifts, right stick tilts. Stick y is inverted
// so pushing forward moves the plate away.
func gamepadPose(_ float64, in input.Sample) stewart.Pose {
	pos := mgl64.Vec3{
		in.Axes[0]*padTranslate + in.PointerX*padTranslate,
		-in.Axes[1]*padTranslate + in.PointerY*padTranslate,
		0,
	}

	if in.Buttons.Pressed(input.ButtonUp) {
		pos[2] += padLift
	}
	if in.Buttons.Pressed(input.ButtonDown) {
		pos[2] -= padLift
	}

	tilt := mgl64.QuatRotate(in.Axes[3]*padTilt, xAxis).Mul(
		mgl64.QuatRotate(in.Axes[2]*padTilt, yAxis)).Normalize()

	return stewart.MakePose(pos, tilt)
}
