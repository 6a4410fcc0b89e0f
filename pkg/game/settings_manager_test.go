package game

import (
	"os"
	"testing"

	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/skysplat/pkg/config"
)

// openTestGdata 在临时 HOME 下创建 gdata manager
func openTestGdata(t *testing.T, appName string) *gdata.Manager {
	t.Helper()
	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	t.Cleanup(func() { os.Setenv("HOME", originalHome) })

	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}
	return m
}

// TestDefaultSettings 测试 DefaultSettings() 返回正确的默认值
func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()
	if settings.Fullscreen {
		t.Error("Fullscreen: got true, want false")
	}
	if !settings.ShowGUI {
		t.Error("ShowGUI: got false, want true")
	}
	if len(settings.Parameters) != 0 {
		t.Errorf("Parameters: got %v, want empty", settings.Parameters)
	}
}

// TestNewSettingsManagerNilGdata 测试 gdataManager 为 nil 时的降级场景
func TestNewSettingsManagerNilGdata(t *testing.T) {
	sm := NewSettingsManager(nil)
	if sm.GetSettings() == nil {
		t.Fatal("GetSettings() returned nil in degraded mode")
	}

	sm.SetShowGUI(false)
	if err := sm.Save(); err != nil {
		t.Errorf("Save() in degraded mode: %v", err)
	}
	if err := sm.Load(); err != nil {
		t.Errorf("Load() in degraded mode: %v", err)
	}
	if !sm.GetSettings().ShowGUI {
		t.Error("Load() in degraded mode should reset to defaults")
	}
}

// TestSettingsLoadSave 测试设置与参数的保存和重新加载
func TestSettingsLoadSave(t *testing.T) {
	m := openTestGdata(t, "test_viewer_settings")

	store := NewParameterStore(config.DefaultParameters())
	store.Set(config.ParamHeight, 20)
	store.Set(config.ParamXRotDeg, 90)

	sm := NewSettingsManager(m)
	sm.SetFullscreen(true)
	sm.SetShowGUI(false)
	sm.CaptureParameters(store)
	if err := sm.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	reloaded := NewSettingsManager(m)
	s := reloaded.GetSettings()
	if !s.Fullscreen || s.ShowGUI {
		t.Errorf("reloaded settings = %+v", s)
	}

	fresh := NewParameterStore(config.DefaultParameters())
	reloaded.ApplyParameters(fresh)
	if got := fresh.Get(config.ParamHeight); got != 20 {
		t.Errorf("height = %v, want 20", got)
	}
	if got := fresh.Get(config.ParamXRotDeg); got != 90 {
		t.Errorf("xRotDeg = %v, want 90", got)
	}
}

// TestSettingsCorruptData 损坏的数据回退到默认设置
func TestSettingsCorruptData(t *testing.T) {
	m := openTestGdata(t, "test_viewer_settings_corrupt")
	if err := m.SaveObjectProp(settingsObject, settingsProperty, []byte("showGui: [unclosed")); err != nil {
		t.Fatalf("SaveObjectProp: %v", err)
	}

	sm := NewSettingsManager(m)
	if !sm.GetSettings().ShowGUI {
		t.Error("corrupt data should fall back to defaults")
	}
	if err := sm.Load(); err == nil {
		t.Error("Load() should report the unmarshal error")
	}
}

// TestApplyParametersEmpty 没有保存的参数时不修改参数存储
func TestApplyParametersEmpty(t *testing.T) {
	sm := NewSettingsManager(nil)
	store := NewParameterStore(config.DefaultParameters())
	store.Set(config.ParamRadius, 500)

	sm.ApplyParameters(store)
	if got := store.Get(config.ParamRadius); got != 500 {
		t.Errorf("radius = %v, want untouched 500", got)
	}
}
