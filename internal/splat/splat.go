// Package splat decodes Gaussian splat point clouds stored in the 32-byte .splat layout.
package splat

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
)

// RecordSize is the size in bytes of one splat record.
//
// Layout (little-endian):
//
//	offset  0: position  3 x float32
//	offset 12: scale     3 x float32
//	offset 24: color     4 x uint8 (RGBA)
//	offset 28: rotation  4 x uint8 (quaternion w,x,y,z quantized as q*128+128)
const RecordSize = 32

// ErrTruncated is returned when the input length is not a multiple of RecordSize.
var ErrTruncated = errors.New("splat data truncated")

// Point is a single Gaussian splat.
type Point struct {
	Position mgl64.Vec3
	Scale    mgl64.Vec3
	Color    color.NRGBA
	Rotation [4]uint8
}

// Radius returns the largest axis of the splat's scale, used as a screen-space size hint.
func (p Point) Radius() float64 {
	return math.Max(p.Scale[0], math.Max(p.Scale[1], p.Scale[2]))
}

// Cloud is a decoded splat point cloud.
type Cloud struct {
	Points []Point
}

// Len returns the number of points in the cloud.
func (c *Cloud) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Points)
}

// Bounds returns the axis-aligned bounding box of all point positions.
// An empty cloud returns zero vectors.
func (c *Cloud) Bounds() (min, max mgl64.Vec3) {
	if c.Len() == 0 {
		return mgl64.Vec3{}, mgl64.Vec3{}
	}
	min = c.Points[0].Position
	max = min
	for _, p := range c.Points[1:] {
		for i := 0; i < 3; i++ {
			min[i] = math.Min(min[i], p.Position[i])
			max[i] = math.Max(max[i], p.Position[i])
		}
	}
	return min, max
}

// Centroid returns the mean point position.
func (c *Cloud) Centroid() mgl64.Vec3 {
	if c.Len() == 0 {
		return mgl64.Vec3{}
	}
	var sum mgl64.Vec3
	for _, p := range c.Points {
		sum = sum.Add(p.Position)
	}
	return sum.Mul(1 / float64(len(c.Points)))
}

// LoadFile reads and decodes a .splat file from disk.
//
// Parameters:
//   - path: File path to the .splat file
//   - maxPoints: Upper bound on decoded points (0 means unlimited)
//
// Returns:
//   - *Cloud: Decoded point cloud
//   - error: Any error encountered during reading or decoding
func LoadFile(path string, maxPoints int) (*Cloud, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open splat file %s: %w", path, err)
	}
	defer f.Close()

	cloud, err := Decode(f, maxPoints)
	if err != nil {
		return nil, fmt.Errorf("failed to decode splat file %s: %w", path, err)
	}
	return cloud, nil
}

// Decode decodes a stream of splat records.
//
// The whole stream is read before decoding. If maxPoints is positive, only the first
// maxPoints records are kept (files exported by splat tools are sorted by importance).
func Decode(r io.Reader, maxPoints int) (*Cloud, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read splat data: %w", err)
	}
	if len(data)%RecordSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrTruncated, len(data), RecordSize)
	}

	count := len(data) / RecordSize
	if maxPoints > 0 && count > maxPoints {
		count = maxPoints
	}

	cloud := &Cloud{Points: make([]Point, count)}
	for i := 0; i < count; i++ {
		cloud.Points[i] = decodeRecord(data[i*RecordSize : (i+1)*RecordSize])
	}
	return cloud, nil
}

// decodeRecord decodes one 32-byte record.
func decodeRecord(rec []byte) Point {
	f := func(off int) float64 {
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(rec[off:])))
	}
	return Point{
		Position: mgl64.Vec3{f(0), f(4), f(8)},
		Scale:    mgl64.Vec3{f(12), f(16), f(20)},
		Color:    color.NRGBA{R: rec[24], G: rec[25], B: rec[26], A: rec[27]},
		Rotation: [4]uint8{rec[28], rec[29], rec[30], rec[31]},
	}
}

// Encode writes the cloud in the .splat record layout.
func Encode(w io.Writer, c *Cloud) error {
	var buf bytes.Buffer
	rec := make([]byte, RecordSize)
	for _, p := range c.Points {
		put := func(off int, v float64) {
			binary.LittleEndian.PutUint32(rec[off:], math.Float32bits(float32(v)))
		}
		put(0, p.Position[0])
		put(4, p.Position[1])
		put(8, p.Position[2])
		put(12, p.Scale[0])
		put(16, p.Scale[1])
		put(20, p.Scale[2])
		rec[24], rec[25], rec[26], rec[27] = p.Color.R, p.Color.G, p.Color.B, p.Color.A
		copy(rec[28:], p.Rotation[:])
		buf.Write(rec)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write splat data: %w", err)
	}
	return nil
}
