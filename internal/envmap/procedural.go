package envmap

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Procedural sky colors, linear RGB.
var (
	skyZenith  = mgl64.Vec3{0.12, 0.28, 0.65}
	skyHorizon = mgl64.Vec3{0.75, 0.82, 0.90}
	groundNear = mgl64.Vec3{0.18, 0.22, 0.10}
	groundFar  = mgl64.Vec3{0.40, 0.42, 0.35}
	sunColor   = mgl64.Vec3{20, 18, 15}
)

// sunDir points at the procedural sun.
var sunDir = mgl64.Vec3{0.4, 0.35, -0.85}.Normalize()

// Procedural builds a simple gradient sky with a sun and a ground plane.
// It stands in for a real environment map when none is configured.
func Procedural(width, height int) *EnvMap {
	env := New(width, height)
	for y := 0; y < height; y++ {
		v := 1 - (float64(y)+0.5)/float64(height)
		lat := (v - 0.5) * math.Pi
		for x := 0; x < width; x++ {
			u := (float64(x) + 0.5) / float64(width)
			lon := (u - 0.5) * 2 * math.Pi
			dir := mgl64.Vec3{
				math.Cos(lat) * math.Cos(lon),
				math.Sin(lat),
				math.Cos(lat) * math.Sin(lon),
			}
			env.Set(x, y, proceduralRadiance(dir))
		}
	}
	return env
}

// proceduralRadiance returns the procedural sky radiance along dir.
func proceduralRadiance(dir mgl64.Vec3) mgl64.Vec3 {
	if dir[1] < 0 {
		t := math.Min(1, -dir[1]*4)
		return lerp(groundFar, groundNear, t)
	}
	t := math.Pow(dir[1], 0.5)
	c := lerp(skyHorizon, skyZenith, t)
	if d := dir.Dot(sunDir); d > 0.9995 {
		c = c.Add(sunColor)
	} else if d > 0.99 {
		c = c.Add(sunColor.Mul((d - 0.99) / 0.0095 * 0.05))
	}
	return c
}

func lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}
