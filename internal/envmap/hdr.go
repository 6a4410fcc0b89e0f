package envmap

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
)

// Largest Radiance image accepted. Bigger headers are rejected before any pixel buffer is allocated.
const (
	MaxHDRWidth  = 16384
	MaxHDRHeight = 8192
)

// errBadHDR is wrapped by every Radiance decoding failure.
var errBadHDR = errors.New("malformed Radiance HDR data")

// DecodeHDR decodes a Radiance RGBE (.hdr) image.
//
// Only the standard "-Y height +X width" orientation is accepted. Scanlines may be flat
// or use the adaptive run-length encoding written by most tools.
func DecodeHDR(r io.Reader) (*EnvMap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadHDR, err)
	}

	width, height, err := readHDRHeader(bufio.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, err
	}

	img, err := rgbe.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadHDR, err)
	}
	hdrImg, ok := img.(hdr.Image)
	if !ok {
		return nil, fmt.Errorf("%w: decoder returned %T", errBadHDR, img)
	}
	b := hdrImg.Bounds()
	if b.Dx() != width || b.Dy() != height {
		return nil, fmt.Errorf("%w: decoded %dx%d, header says %dx%d", errBadHDR, b.Dx(), b.Dy(), width, height)
	}

	env := New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, bl, _ := hdrImg.HDRAt(b.Min.X+x, b.Min.Y+y).HDRRGBA()
			env.Set(x, y, mgl64.Vec3{r, g, bl})
		}
	}
	return env, nil
}

// readHDRHeader parses the text header and the resolution line.
func readHDRHeader(br *bufio.Reader) (width, height int, err error) {
	magic, err := br.ReadString('\n')
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", errBadHDR, err)
	}
	if !strings.HasPrefix(magic, "#?") {
		return 0, 0, fmt.Errorf("%w: missing #? signature", errBadHDR)
	}

	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return 0, 0, fmt.Errorf("%w: unterminated header: %v", errBadHDR, err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		if strings.HasPrefix(line, "FORMAT=") && line != "FORMAT=32-bit_rle_rgbe" {
			return 0, 0, fmt.Errorf("%w: unsupported %s", errBadHDR, line)
		}
	}

	res, err := br.ReadString('\n')
	if err != nil {
		return 0, 0, fmt.Errorf("%w: missing resolution: %v", errBadHDR, err)
	}
	if _, err := fmt.Sscanf(strings.TrimSpace(res), "-Y %d +X %d", &height, &width); err != nil {
		return 0, 0, fmt.Errorf("%w: unsupported resolution line %q", errBadHDR, strings.TrimSpace(res))
	}
	if width <= 0 || height <= 0 || width > MaxHDRWidth || height > MaxHDRHeight {
		return 0, 0, fmt.Errorf("%w: invalid size %dx%d", errBadHDR, width, height)
	}
	return width, height, nil
}
