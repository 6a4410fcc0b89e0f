package render

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ACES 拟合矩阵（sRGB → AP1 → RRT_SAT，以及逆变换）
// 列主序，书写顺序与 GLSL 的 mat3 构造一致
var (
	acesInput = mgl64.Mat3{
		0.59719, 0.07600, 0.02840,
		0.35458, 0.90834, 0.13383,
		0.04823, 0.01566, 0.83777,
	}
	acesOutput = mgl64.Mat3{
		1.60475, -0.10208, -0.00327,
		-0.53108, 1.10813, -0.07276,
		-0.07367, -0.00605, 1.07602,
	}
)

// acesExposureBias 进入 ACES 拟合前的曝光补偿
const acesExposureBias = 1 / 0.6

// ACESFilmic 对线性 RGB 做 ACES 电影色调映射，结果仍是线性值，范围 [0, 1]
func ACESFilmic(c mgl64.Vec3, exposure float64) mgl64.Vec3 {
	c = c.Mul(exposure * acesExposureBias)
	c = acesInput.Mul3x1(c)
	c = mgl64.Vec3{rrtAndODTFit(c[0]), rrtAndODTFit(c[1]), rrtAndODTFit(c[2])}
	c = acesOutput.Mul3x1(c)
	return mgl64.Vec3{saturate(c[0]), saturate(c[1]), saturate(c[2])}
}

func rrtAndODTFit(v float64) float64 {
	a := v*(v+0.0245786) - 0.000090537
	b := v*(0.983729*v+0.4329510) + 0.238081
	return a / b
}

func saturate(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// LinearToSRGB 编码一个 [0, 1] 的线性通道
func LinearToSRGB(v float64) float64 {
	v = saturate(v)
	if v <= 0.0031308 {
		return v * 12.92
	}
	return 1.055*math.Pow(v, 1/2.4) - 0.055
}

// ToneMapRGBA 色调映射并编码为 8 位 sRGB
func ToneMapRGBA(c mgl64.Vec3, exposure float64) color.RGBA {
	m := ACESFilmic(c, exposure)
	return color.RGBA{
		R: uint8(math.Round(LinearToSRGB(m[0]) * 255)),
		G: uint8(math.Round(LinearToSRGB(m[1]) * 255)),
		B: uint8(math.Round(LinearToSRGB(m[2]) * 255)),
		A: 0xff,
	}
}
