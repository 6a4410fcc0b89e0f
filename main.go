package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/skysplat/pkg/app"
	"github.com/decker502/skysplat/pkg/embedded"
)

func main() {
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	scenePath := flag.String("config", app.DefaultScenePath, "Scene config (embedded path or file)")
	envMap := flag.String("env", "", "Environment map (.hdr, .png, .jpg, .tga, .webp, .bmp); procedural sky when empty")
	splatPath := flag.String("splat", "", "Gaussian splat file (.splat); demo cloud when empty")
	noGUI := flag.Bool("nogui", false, "Hide the parameter panel")
	screenshotDir := flag.String("screenshots", "screenshots", "Directory for F12 screenshots")
	flag.Parse()

	embedded.Init(dataFS)

	viewer, err := app.NewApp(app.Config{
		Verbose:       *verbose,
		ScenePath:     *scenePath,
		EnvMap:        *envMap,
		Splat:         *splatPath,
		NoGUI:         *noGUI,
		ScreenshotDir: *screenshotDir,
	})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	viewer.ApplyWindowSettings()

	if err := ebiten.RunGame(viewer); err != nil {
		log.Fatal(err)
	}
}
