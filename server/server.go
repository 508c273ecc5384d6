package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/segmentio/ksuid"
)

const requestIDKey = "request_id"

type Server struct {
	cfg    Config
	engine *gin.Engine
	cron   *cron.Cron
}

func New(cfg Config) (*Server, error) {
	if err := os.MkdirAll(cfg.WorkDir, 0o755); err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}

	s := &Server{
		cfg:  cfg,
		cron: cron.New(),
	}

	if _, err := s.cron.AddFunc(cfg.SweepSpec, s.sweepJob); err != nil {
		return nil, fmt.Errorf("add sweep job %q: %w", cfg.SweepSpec, err)
	}

	engine := gin.New()
	engine.MaxMultipartMemory = cfg.MaxUploadBytes
	engine.Use(gin.Recovery(), requestID(), requestLogger())
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.POST(removePath, s.handleRemove)
	s.engine = engine

	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run 启动清理任务并提供 HTTP 服务，ctx 结束时优雅关闭
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.cron.Start()
	defer func() {
		<-s.cron.Stop().Done()
	}()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("keyserver listening", "addr", s.cfg.Addr, "workdir", s.cfg.WorkDir)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		slog.Info("keyserver shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := ksuid.New().String()
		c.Set(requestIDKey, id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("request",
			"id", c.GetString(requestIDKey),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start))
	}
}
