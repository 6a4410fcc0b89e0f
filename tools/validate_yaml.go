package main

import (
	"fmt"
	"os"

	"github.com/decker502/skysplat/pkg/config"
)

// 用法: go run tools/validate_yaml.go [data/scene.yaml]
func main() {
	path := "data/scene.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("❌ 读取文件失败: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.ParseSceneConfig(data)
	if err != nil {
		fmt.Printf("❌ 场景配置不合法: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ YAML 格式正确\n")
	fmt.Printf("✅ 窗口: %dx%d, 相机 fov %.0f°\n", cfg.Window.Width, cfg.Window.Height, cfg.Camera.FOVDeg)
	fmt.Printf("✅ 参数数量: %d\n", len(cfg.Parameters))
	for _, p := range cfg.Parameters {
		fmt.Printf("   %-8s [%g, %g] step %g default %g\n", p.Name, p.Min, p.Max, p.Step, p.Default)
	}
	if len(cfg.Displacement.Targets) > 0 {
		fmt.Printf("✅ 位移对象: %v\n", cfg.Displacement.Targets)
	}
}
