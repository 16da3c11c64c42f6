// Package server 组装 Gin 路由并负责 HTTP 服务的启动与优雅退出
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"pdf-translator/config"
	"pdf-translator/handlers"
	"pdf-translator/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ShutdownTimeout 优雅退出的最长等待时间
const ShutdownTimeout = 10 * time.Second

// Server HTTP 服务
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	logger     *slog.Logger
}

// New 创建路由：API、静态下载、健康检查、指标，以及可选的静态站点
func New(cfg *config.Config, logger *slog.Logger, h *handlers.Handler) *Server {
	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadMB << 20

	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(logger), middleware.Metrics())
	if cfg.CORSEnabled() {
		r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.RateLimitEnabled() {
		r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
		logger.Info("已启用限流", "rps", cfg.RateLimitRPS, "burst", cfg.RateLimitBurst)
	}

	h.Register(r)

	// 生成的 PDF 只读下载，不列目录
	r.Static(cfg.DownloadPrefix, cfg.OutputDir)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.PublicDir != "" {
		if info, err := os.Stat(cfg.PublicDir); err != nil || !info.IsDir() {
			logger.Warn("静态目录不可用", "dir", cfg.PublicDir, "error", err)
		} else {
			logger.Info("提供静态文件", "dir", cfg.PublicDir)
			r.NoRoute(gin.WrapH(http.FileServer(http.Dir(cfg.PublicDir))))
		}
	}

	return &Server{
		engine: r,
		httpServer: &http.Server{
			Addr:              cfg.ServerAddr(),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Handler 返回路由，便于测试
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run 启动服务，ctx 取消后优雅退出
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("🚀 PDF 翻译服务启动", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("收到退出信号，正在关闭服务")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	s.logger.Info("服务已停止")
	return nil
}
