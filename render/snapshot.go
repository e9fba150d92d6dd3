package render

import (
	"github.com/fogleman/gg"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"github.com/Linc-hub/StewartSim/kinematics"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "render",
})

// Snapshot keeps the most recent frame and can rasterize it as a top-view
// PNG. This is a debugging aid, not the mechanism renderer: it draws base
// joints, horns and platform anchors projected onto the base plane, with
// infeasible legs highlighted.
type Snapshot struct {
	Size  int     // image width/height in pixels
	Scale float64 // pixels per field unit

	last Frame
	ok   bool
}

func NewSnapshot(size int, scale float64) *Snapshot {
	return &Snapshot{
		Size:  size,
		Scale: scale,
	}
}

func (s *Snapshot) Frame(f Frame) {
	// Copy the joint slices; the solver reuses them next tick.
	s.last = Frame{
		Pose:           f.Pose,
		BaseJoints:     append([]mgl64.Vec3(nil), f.BaseJoints...),
		HornTips:       append([]mgl64.Vec3(nil), f.HornTips...),
		PlatformJoints: append([]mgl64.Vec3(nil), f.PlatformJoints...),
		Angles:         append([]kinematics.Angle(nil), f.Angles...),
		ShowPath:       f.ShowPath,
	}
	s.ok = true
}

// Save writes the last frame to a PNG. No-op if nothing has been drawn yet.
func (s *Snapshot) Save(path string) error {
	if !s.ok {
		log.Warn("no frame to save")
		return nil
	}

	dc := gg.NewContext(s.Size, s.Size)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	center := float64(s.Size) / 2
	px := func(x, y float64) (float64, float64) {
		return center + x*s.Scale, center - y*s.Scale
	}

	f := s.last
	for i := range f.BaseJoints {
		bx, by := px(f.BaseJoints[i].X(), f.BaseJoints[i].Y())
		hx, hy := px(f.HornTips[i].X(), f.HornTips[i].Y())
		qx, qy := px(f.PlatformJoints[i].X(), f.PlatformJoints[i].Y())

		if f.Angles[i].OK {
			dc.SetRGB(0.1, 0.1, 0.1)
		} else {
			dc.SetRGB(0.9, 0.1, 0.1)
		}

		dc.SetLineWidth(2)
		dc.DrawLine(bx, by, hx, hy)
		dc.Stroke()

		dc.SetLineWidth(1)
		dc.DrawLine(hx, hy, qx, qy)
		dc.Stroke()

		dc.DrawCircle(bx, by, 4)
		dc.Fill()
	}

	// Heading indicator: the platform x axis projected onto the base plane.
	ax := f.Pose.Orientation.Rotate(mgl64.Vec3{1, 0, 0})
	ox, oy := px(f.Pose.Translation.X(), f.Pose.Translation.Y())
	dc.SetRGB(0.1, 0.4, 0.9)
	dc.DrawLine(ox, oy, ox+ax.X()*20, oy-ax.Y()*20)
	dc.Stroke()
	dc.DrawCircle(ox, oy, 3)
	dc.Fill()

	log.Infof("saving snapshot to %s", path)
	return dc.SavePNG(path)
}
