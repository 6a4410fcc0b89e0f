package components

import "github.com/decker502/skysplat/internal/envmap"

// SkyboxComponent 地面投影天空盒
//
// 环境贴图加载完成后才挂载到天空盒实体上；在此之前天空盒句柄视为缺失。
type SkyboxComponent struct {
	// Height 相机离投影地面的高度（世界单位，未转换）
	Height float64
	// Radius 投影球半径（世界单位，未转换）
	Radius float64
	// Scale 天空盒网格的整体缩放
	Scale float64
	// Exposure 色调映射前的曝光
	Exposure float64

	Env *envmap.EnvMap
}
