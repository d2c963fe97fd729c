// Package embedded 提供嵌入资源的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）。
// 本包提供包装函数，让其他包可以访问嵌入的数据文件。
//
// 使用前必须调用 Init() 初始化。命令行工具未初始化时，
// 配置加载会回退到磁盘读取。
package embedded

import (
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

var (
	dataFS      fs.FS
	initialized bool
)

// Init 初始化 embed.FS 变量
// 必须在 main() 开始时、任何配置加载之前调用
func Init(data embed.FS) {
	InitFS(data)
}

// InitFS 使用任意 fs.FS 初始化（测试中可传入 fstest.MapFS）
func InitFS(data fs.FS) {
	dataFS = data
	initialized = true
}

// Reset 恢复到未初始化状态
func Reset() {
	dataFS = nil
	initialized = false
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// normalize 标准化路径
func normalize(path string) string {
	// 标准化路径分隔符为正斜杠（embed.FS 使用正斜杠）
	path = filepath.ToSlash(path)
	// 移除可能的 "./" 前缀
	return strings.TrimPrefix(path, "./")
}

// ReadFile 读取嵌入的数据文件
// 路径必须以 "data/" 开头
func ReadFile(path string) ([]byte, error) {
	if !initialized {
		return nil, fmt.Errorf("embedded package not initialized, call Init() first")
	}

	path = normalize(path)
	if !strings.HasPrefix(path, "data/") {
		return nil, fmt.Errorf("unknown resource path prefix: %s (must start with 'data/')", path)
	}
	return fs.ReadFile(dataFS, path)
}

// Exists 检查文件是否存在于嵌入的数据中
func Exists(path string) bool {
	if !initialized {
		return false
	}
	_, err := fs.Stat(dataFS, normalize(path))
	return err == nil
}
