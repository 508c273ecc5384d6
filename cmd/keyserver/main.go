package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/chaos-io/spritekey/server"
)

func main() {
	cfg := server.DefaultConfig()
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	flag.StringVar(&cfg.WorkDir, "workdir", cfg.WorkDir, "directory for uploaded sprites")
	flag.Int64Var(&cfg.MaxUploadBytes, "max-upload", cfg.MaxUploadBytes, "maximum request body in bytes")
	flag.Int64Var(&cfg.MaxPixels, "max-pixels", cfg.MaxPixels, "maximum decoded width*height")
	flag.DurationVar(&cfg.MaxAge, "max-age", cfg.MaxAge, "remove work files older than this")
	flag.StringVar(&cfg.SweepSpec, "sweep", cfg.SweepSpec, "cron spec of the work dir sweep")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	s, err := server.New(cfg)
	if err != nil {
		log.Fatal("Failed to create server:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := s.Run(ctx); err != nil {
		log.Fatal("Server stopped:", err)
	}
}
