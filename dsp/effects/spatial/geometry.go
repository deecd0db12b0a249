package spatial

import "math"

// Vec3 is a point or direction in listener space.
type Vec3 struct {
	X, Y, Z float64
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (v Vec3) scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) normalize() Vec3 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.scale(1 / n)
}

var (
	listenerFront = Vec3{0, 0, -1}
	listenerUp    = Vec3{0, 1, 0}
	listenerRight = Vec3{1, 0, 0}
)

// AzimuthElevation returns the direction of source as seen by a listener at
// the origin facing -Z. Azimuth is in degrees, positive to the right, in
// [-180, 180]; elevation is in degrees in [-90, 90].
func AzimuthElevation(source Vec3) (azimuth, elevation float64) {
	if source.Norm() == 0 {
		return 0, 0
	}

	dir := source.normalize()

	upProjection := dir.dot(listenerUp)
	projected := dir.sub(listenerUp.scale(upProjection)).normalize()

	azimuth = degrees(math.Acos(clampUnit(projected.dot(listenerRight))))
	if projected.dot(listenerFront) < 0 {
		azimuth = 360 - azimuth
	}
	if azimuth >= 0 && azimuth <= 270 {
		azimuth = 90 - azimuth
	} else {
		azimuth = 450 - azimuth
	}

	elevation = 90 - degrees(math.Acos(clampUnit(dir.dot(listenerUp))))
	switch {
	case elevation > 90:
		elevation = 180 - elevation
	case elevation < -90:
		elevation = -180 - elevation
	}

	return azimuth, elevation
}

// direction converts azimuth/elevation in degrees back to a unit vector.
func direction(azimuth, elevation float64) Vec3 {
	az := radians(azimuth)
	el := radians(elevation)
	return Vec3{
		X: math.Cos(el) * math.Sin(az),
		Y: math.Sin(el),
		Z: -math.Cos(el) * math.Cos(az),
	}
}

func degrees(r float64) float64 { return r * 180 / math.Pi }
func radians(d float64) float64 { return d * math.Pi / 180 }

func clampUnit(x float64) float64 {
	return math.Max(-1, math.Min(1, x))
}
