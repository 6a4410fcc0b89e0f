//go:build !mobile

package utils

import "os"

// mobileEmulateEnv 设为 1 时桌面端按移动端方式运行（本地调试触摸布局）
const mobileEmulateEnv = "SKYSPLAT_MOBILE_EMULATE"

// IsMobile 是否以移动端方式运行
// 桌面端编译时只由环境变量决定
func IsMobile() bool {
	return os.Getenv(mobileEmulateEnv) == "1"
}
