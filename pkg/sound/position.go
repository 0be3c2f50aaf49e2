// ABOUTME: 3D positioning of voices against the nearest viewport camera
// ABOUTME: Re-projects world positions into the single listener's frame
package sound

import (
	"math"

	"github.com/XJGE/XJGE-legacy-sub000/pkg/audio"
)

// Camera is the view of one active viewport
type Camera struct {
	Viewport int
	Position audio.Vec3
	Forward  audio.Vec3
}

// Project converts a world position into the position emitted to the
// listener: bearing and planar distance from the nearest camera become an
// x/z pair while y passes through. Without cameras the world position is
// emitted unchanged.
func Project(world audio.Vec3, cams []Camera) audio.Vec3 {
	if len(cams) == 0 {
		return world
	}

	cam := nearest(world, cams)
	bearing, dist := Bearing(cam, world)
	rad := bearing * math.Pi / 180

	return audio.Vec3{
		X: dist * math.Sin(rad),
		Y: world.Y,
		Z: -dist * math.Cos(rad),
	}
}

// Bearing returns the clockwise angle in [0, 360) from the camera's
// forward direction to world, and the distance between them, both on the
// XZ plane
func Bearing(cam Camera, world audio.Vec3) (float64, float64) {
	d := world.Sub(cam.Position)
	f := cam.Forward

	side := d.X*-f.Z + d.Z*f.X
	ahead := d.X*f.X + d.Z*f.Z

	bearing := math.Atan2(side, ahead) * 180 / math.Pi
	if bearing < 0 {
		bearing += 360
	}
	return bearing, math.Hypot(d.X, d.Z)
}

// nearest returns the camera closest to world, the first one on ties
func nearest(world audio.Vec3, cams []Camera) Camera {
	best := cams[0]
	bestDist := world.Sub(best.Position).Length()
	for _, c := range cams[1:] {
		if d := world.Sub(c.Position).Length(); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
