package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rebeworld/server"
)

// 游戏中继入口：启动 HTTP + WebSocket 服务，托管客户端静态资源
func main() {
	var (
		addr       string
		configPath string
		distDir    string
	)
	flag.StringVar(&addr, "addr", "", "listen address, overrides config, e.g. :3005")
	flag.StringVar(&configPath, "config", "", "optional config file path (yaml)")
	flag.StringVar(&distDir, "dist", "", "client bundle directory, overrides config")
	flag.Parse()

	cfg, err := server.LoadConfig(configPath)
	if err != nil {
		panic(err)
	}
	// 命令行参数优先于配置文件
	if addr != "" {
		cfg.Addr = addr
	}
	if distDir != "" {
		cfg.DistDir = distDir
	}

	log, err := server.NewLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	dir := server.NewDirectory()
	metrics := &server.Metrics{}
	hub := server.NewHub(cfg, dir, metrics, log)
	go hub.Run()

	mux := http.NewServeMux()
	mux.Handle("/ws", server.NewGateway(cfg, hub, metrics, log))
	// 管理与监控接口
	mux.HandleFunc("/admin/players", server.HandleAdminPlayers(dir))
	mux.HandleFunc("/metrics", server.HandleMetrics(metrics, dir))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	// 客户端静态资源 + SPA 回退
	mux.Handle("/", server.SPAHandler(cfg.DistDir))

	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	go func() {
		log.Infof("game relay listening on %s; serving client from %s", cfg.Addr, cfg.DistDir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// 优雅退出（Ctrl+C）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	hub.Close()
}
