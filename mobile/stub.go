//go:build !mobile

// Package mobile 的桌面端占位
// 真正的绑定入口在 mobile.go，仅在 -tags mobile 时编译
package mobile

// Dummy 保证包在桌面端构建时也能被引用
func Dummy() {}
