package stewart

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Pose is a rigid offset of the top plate relative to its neutral position:
// a translation plus a unit quaternion orientation.
type Pose struct {
	Translation mgl64.Vec3
	Orientation mgl64.Quat
}

// IdentityPose returns the neutral pose: zero translation, no rotation.
func IdentityPose() Pose {
	return Pose{
		Orientation: mgl64.QuatIdent(),
	}
}

func MakePose(translation mgl64.Vec3, orientation mgl64.Quat) Pose {
	return Pose{
		Translation: translation,
		Orientation: orientation,
	}
}

func (p Pose) String() string {
	return fmt.Sprintf("Pose{x=%+07.2f y=%+07.2f z=%+07.2f, w=%+.3f i=%+.3f j=%+.3f k=%+.3f}",
		p.Translation.X(), p.Translation.Y(), p.Translation.Z(),
		p.Orientation.W, p.Orientation.X(), p.Orientation.Y(), p.Orientation.Z())
}

// Blend interpolates between this pose and the target: linear on the
// translation, spherical (slerp) on the orientation, so angular velocity is
// constant across the blend. The result at t=0 is exactly p, at t=1 exactly
// the target.
func (p Pose) Blend(target Pose, t float64) Pose {
	if t <= 0 {
		return p
	}
	if t >= 1 {
		return target
	}

	return Pose{
		Translation: p.Translation.Add(target.Translation.Sub(p.Translation).Mul(t)),
		Orientation: mgl64.QuatSlerp(p.Orientation, target.Orientation, t),
	}
}
