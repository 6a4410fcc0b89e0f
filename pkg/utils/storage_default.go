//go:build !android

package utils

// EnsureStorageDir 在 gdata 打开前准备存储目录
// 除 Android 外 gdata 会自行创建目录
func EnsureStorageDir() error {
	return nil
}
