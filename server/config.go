package server

import (
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	// Addr 监听地址
	Addr string
	// WorkDir 上传文件落盘目录，每个请求一个 ksuid 命名的文件
	WorkDir string
	// MaxUploadBytes 单次请求体上限
	MaxUploadBytes int64
	// MaxPixels 解码前按图片头检查宽×高的上限
	MaxPixels int64
	// MaxAge 工作文件超过该时长后由定时任务清理
	MaxAge time.Duration
	// SweepSpec 清理任务的 cron 表达式
	SweepSpec string
}

func DefaultConfig() Config {
	return Config{
		Addr:           ":8080",
		WorkDir:        filepath.Join(os.TempDir(), "spritekey"),
		MaxUploadBytes: 20 << 20,
		MaxPixels:      50_000_000,
		MaxAge:         30 * time.Minute,
		SweepSpec:      "@every 10m",
	}
}
