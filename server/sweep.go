package server

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

func (s *Server) sweepJob() {
	n, err := s.sweep(time.Now())
	if err != nil {
		slog.Error("sweep work dir", "dir", s.cfg.WorkDir, "error", err)
		return
	}
	if n > 0 {
		slog.Info("swept stale uploads", "dir", s.cfg.WorkDir, "removed", n)
	}
}

// sweep 删除 WorkDir 下修改时间早于 now-MaxAge 的文件
func (s *Server) sweep(now time.Time) (int, error) {
	entries, err := os.ReadDir(s.cfg.WorkDir)
	if err != nil {
		return 0, fmt.Errorf("read dir: %w", err)
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) <= s.cfg.MaxAge {
			continue
		}
		if err := os.Remove(filepath.Join(s.cfg.WorkDir, e.Name())); err != nil {
			slog.Warn("remove stale upload", "name", e.Name(), "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}
