package game

import (
	"bytes"
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/decker502/skysplat/internal/splat"
)

func writeTestSplat(t *testing.T, n int) string {
	t.Helper()
	cloud := &splat.Cloud{}
	for i := 0; i < n; i++ {
		cloud.Points = append(cloud.Points, splat.Point{
			Position: mgl64.Vec3{float64(i), 0, 0},
			Scale:    mgl64.Vec3{0.1, 0.1, 0.1},
			Color:    color.NRGBA{R: 255, A: 255},
		})
	}
	var buf bytes.Buffer
	if err := splat.Encode(&buf, cloud); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	path := filepath.Join(t.TempDir(), "scene.splat")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestAssetLoaderSplatFile(t *testing.T) {
	l := NewAssetLoader(context.Background())
	l.LoadSplat(writeTestSplat(t, 3), 0)

	if err := l.Wait(); err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	results := l.Poll()
	if len(results) != 1 {
		t.Fatalf("Poll() returned %d results, want 1", len(results))
	}
	r := results[0]
	if r.Kind != AssetSplat || r.Err != nil || r.Cloud.Len() != 3 {
		t.Errorf("unexpected result %+v", r)
	}
	if l.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", l.Pending())
	}
	if again := l.Poll(); again != nil {
		t.Errorf("second Poll() = %v, want nil", again)
	}
}

// TestAssetLoaderBuiltins 未指定路径时使用内置资源
func TestAssetLoaderBuiltins(t *testing.T) {
	l := NewAssetLoader(context.Background())
	l.LoadEnvMap("", 0)
	l.LoadSplat("", 0)
	if err := l.Wait(); err != nil {
		t.Fatalf("Wait() error: %v", err)
	}

	var gotEnv, gotSplat bool
	for _, r := range l.Poll() {
		switch r.Kind {
		case AssetEnvMap:
			gotEnv = r.EnvMap != nil && r.EnvMap.Width == proceduralSkyWidth
		case AssetSplat:
			gotSplat = r.Cloud.Len() == demoCloudPoints
		}
	}
	if !gotEnv || !gotSplat {
		t.Errorf("builtins: env=%v splat=%v", gotEnv, gotSplat)
	}
}

// TestAssetLoaderFailure 加载失败通过结果返回，不影响其他资源
func TestAssetLoaderFailure(t *testing.T) {
	l := NewAssetLoader(context.Background())
	l.LoadEnvMap(filepath.Join(t.TempDir(), "missing.hdr"), 0)
	l.LoadSplat("", 0)

	if err := l.Wait(); err == nil {
		t.Error("Wait() should report the failed load")
	}

	results := l.Poll()
	if len(results) != 2 {
		t.Fatalf("Poll() returned %d results, want 2", len(results))
	}
	for _, r := range results {
		switch r.Kind {
		case AssetEnvMap:
			if r.Err == nil || r.EnvMap != nil {
				t.Errorf("env result = %+v, want error", r)
			}
		case AssetSplat:
			if r.Err != nil {
				t.Errorf("splat result error: %v", r.Err)
			}
		}
	}
}

// TestAssetLoaderClose 关闭后完成的结果被丢弃
func TestAssetLoaderClose(t *testing.T) {
	l := NewAssetLoader(context.Background())
	l.Close()
	l.LoadSplat("", 0)
	l.Wait()

	if results := l.Poll(); len(results) != 0 {
		t.Errorf("Poll() after Close = %v, want none", results)
	}
}

func TestAssetKindString(t *testing.T) {
	if AssetEnvMap.String() != "envmap" || AssetSplat.String() != "splat" {
		t.Error("unexpected asset kind names")
	}
}
