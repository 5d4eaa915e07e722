package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/repscope/internal/analytics"
	"github.com/claude/repscope/internal/config"
	"github.com/claude/repscope/internal/hevy"
	repscopemcp "github.com/claude/repscope/internal/mcp"
	"github.com/claude/repscope/internal/server"
	"github.com/claude/repscope/internal/storage"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	mode := flag.String("mode", "stdio", "transport mode: stdio or http")
	flag.Parse()

	// stdout carries the stdio transport; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("RepScope starting", "version", Version, "mode", *mode)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var snap analytics.SnapshotStore
	if cfg.Cache.Path != "" {
		store, err := storage.Open(cfg.Cache.Path)
		if err != nil {
			log.Error("failed to open template snapshot", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		snap = store
		log.Info("template snapshot enabled", "path", cfg.Cache.Path)
	}

	client := hevy.NewClient(cfg.Hevy.BaseURL, cfg.Hevy.APIKey)
	snapMaxAge := time.Duration(cfg.Cache.MaxAgeHours) * time.Hour
	svc := analytics.NewService(client, snap, snapMaxAge, log)
	mcpSrv := repscopemcp.New(svc, Version, log)

	switch *mode {
	case "stdio":
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			log.Error("stdio server error", "error", err)
			os.Exit(1)
		}
	case "http":
		serveHTTP(cfg, mcpSrv, log)
	default:
		log.Error("unknown mode", "mode", *mode)
		os.Exit(1)
	}
}

func serveHTTP(cfg *config.Config, mcpSrv *mcpserver.MCPServer, log *slog.Logger) {
	srv := server.New(mcpSrv, cfg.Server.APIKey, log)

	var listener net.Listener
	var err error

	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr)
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
