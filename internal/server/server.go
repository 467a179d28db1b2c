package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"arithma/internal/assets"
	"arithma/internal/config"
	"arithma/internal/metrics"
)

const defaultShutdownTimeout = 5 * time.Second

// Server はHTTPサーバーを管理する構造体
type Server struct {
	config     *config.Config
	table      *assets.Table
	logger     *slog.Logger
	httpServer *http.Server

	registry *prometheus.Registry
	metrics  *metrics.Metrics
	limiter  *rateLimiter

	api map[string]APIHandler

	setupOnce sync.Once
	engine    *gin.Engine
	ready     atomic.Bool
	addr      atomic.Value // string
}

// New は新しいServerインスタンスを作成する。
// table は構築済みで、以後変更されないこと
func New(cfg *config.Config, table *assets.Table, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	m.ObserveTable(table)

	s := &Server{
		config:   cfg,
		table:    table,
		logger:   logger,
		registry: registry,
		metrics:  m,
		api:      make(map[string]APIHandler),
		httpServer: &http.Server{
			Addr:         cfg.ServerAddress(),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	if cfg.RateLimit.RPS > 0 {
		s.limiter = newRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	return s
}

// Handler はルーティング済みのハンドラを返す。
// 初回呼び出し以降 RegisterAPI はできない
func (s *Server) Handler() http.Handler {
	s.setupOnce.Do(s.setupRoutes)
	return s.engine
}

// setupRoutes はHTTPルートを設定する
func (s *Server) setupRoutes() {
	engine := gin.New()
	// 末尾スラッシュの扱いは静的パスの解決に任せる
	engine.RedirectTrailingSlash = false

	engine.Use(requestID(), s.accessLog())
	if s.config.Metrics.Enabled {
		engine.Use(s.observe())
	}
	engine.Use(s.recovery())
	if s.limiter != nil {
		engine.Use(s.limiter.middleware(s.metrics))
	}

	// 運用向けエンドポイント
	engine.GET("/healthz", s.handleHealth)
	engine.GET("/readyz", s.handleReady)
	if s.config.Metrics.Enabled {
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	}

	// それ以外はすべてAPIか静的アセット
	engine.NoRoute(s.handleRequest)

	s.engine = engine
}

// Addr はリッスン中のアドレスを返す。起動前は空文字
func (s *Server) Addr() string {
	addr, _ := s.addr.Load().(string)
	return addr
}

// Start はサーバーを起動し、ctx のキャンセルかシグナルを受けるまでブロックする
func (s *Server) Start(ctx context.Context) error {
	s.httpServer.Handler = s.Handler()

	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("サーバーの起動に失敗: %w", err)
	}
	s.addr.Store(listener.Addr().String())

	// シャットダウン用のチャンネル
	shutdownCh := make(chan error, 1)

	// サーバーを別ゴルーチンで起動
	go func() {
		s.logger.Info("HTTPサーバーを起動しています", "addr", listener.Addr().String())
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			shutdownCh <- fmt.Errorf("サーバーの起動に失敗: %w", err)
		}
	}()
	s.ready.Store(true)

	// シグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// コンテキストかシグナルを待つ
	select {
	case <-ctx.Done():
		s.logger.Info("コンテキストがキャンセルされました")
	case sig := <-sigCh:
		s.logger.Info("シグナルを受信しました", "signal", sig.String())
	case err := <-shutdownCh:
		s.ready.Store(false)
		return err
	}

	// グレースフルシャットダウン
	return s.Shutdown()
}

// Shutdown はサーバーをグレースフルにシャットダウンする
func (s *Server) Shutdown() error {
	s.logger.Info("サーバーをシャットダウンしています...")
	s.ready.Store(false)

	timeout := s.config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("サーバーのシャットダウンに失敗: %w", err)
	}

	s.logger.Info("サーバーが正常にシャットダウンされました")
	return nil
}
