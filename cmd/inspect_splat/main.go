package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/decker502/skysplat/internal/splat"
)

func main() {
	generate := flag.Int("generate", 0, "Write a demo cloud with N points instead of inspecting")
	out := flag.String("o", "demo.splat", "Output path for -generate")
	maxPoints := flag.Int("max", 0, "Read at most N points (0 = all)")
	flag.Usage = func() {
		fmt.Println("用法: go run ./cmd/inspect_splat [-max N] <file.splat>")
		fmt.Println("      go run ./cmd/inspect_splat -generate N [-o out.splat]")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *generate > 0 {
		if err := writeDemo(*out, *generate); err != nil {
			log.Fatalf("生成失败: %v", err)
		}
		fmt.Printf("已生成 %d 个点: %s\n", *generate, *out)
		return
	}

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	path := flag.Arg(0)
	cloud, err := splat.LoadFile(path, *maxPoints)
	if err != nil {
		log.Fatalf("读取失败: %v", err)
	}
	printStats(path, cloud)
}

func writeDemo(path string, n int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := splat.Encode(f, splat.DemoCloud(n)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printStats(path string, cloud *splat.Cloud) {
	fmt.Printf("文件: %s\n", path)
	fmt.Printf("点数: %d\n", cloud.Len())
	if cloud.Len() == 0 {
		return
	}

	min, max := cloud.Bounds()
	c := cloud.Centroid()
	fmt.Printf("包围盒: (%.3f, %.3f, %.3f) - (%.3f, %.3f, %.3f)\n", min[0], min[1], min[2], max[0], max[1], max[2])
	fmt.Printf("中心:   (%.3f, %.3f, %.3f)\n", c[0], c[1], c[2])

	minR, maxR := cloud.Points[0].Radius(), cloud.Points[0].Radius()
	var alphaSum, transparent int
	for _, p := range cloud.Points {
		r := p.Radius()
		if r < minR {
			minR = r
		}
		if r > maxR {
			maxR = r
		}
		alphaSum += int(p.Color.A)
		if p.Color.A == 0 {
			transparent++
		}
	}
	fmt.Printf("半径范围: %.4f - %.4f\n", minR, maxR)
	fmt.Printf("平均不透明度: %.1f / 255\n", float64(alphaSum)/float64(cloud.Len()))
	if transparent > 0 {
		fmt.Printf("完全透明的点: %d（渲染时跳过）\n", transparent)
	}
}
