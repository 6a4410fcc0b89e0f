package splat

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DemoCloud builds a deterministic point cloud of n splats arranged on a
// Fibonacci sphere of radius 1, colored by direction.
func DemoCloud(n int) *Cloud {
	if n <= 0 {
		return &Cloud{}
	}
	golden := math.Pi * (3 - math.Sqrt(5))
	points := make([]Point, n)
	for i := range points {
		y := 1 - 2*(float64(i)+0.5)/float64(n)
		r := math.Sqrt(1 - y*y)
		theta := golden * float64(i)
		dir := mgl64.Vec3{math.Cos(theta) * r, y, math.Sin(theta) * r}

		points[i] = Point{
			Position: dir,
			Scale:    mgl64.Vec3{0.02, 0.02, 0.02},
			Color: color.NRGBA{
				R: channel(dir[0]),
				G: channel(dir[1]),
				B: channel(dir[2]),
				A: 220,
			},
			Rotation: [4]uint8{255, 128, 128, 128},
		}
	}
	return &Cloud{Points: points}
}

// channel maps [-1, 1] to [0, 255].
func channel(v float64) uint8 {
	return uint8(math.Round((v*0.5 + 0.5) * 255))
}
