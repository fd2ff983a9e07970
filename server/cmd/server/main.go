package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"google.golang.org/grpc"

	"github.com/fibermonitor/fibermonitor/pkg/rpc"
	"github.com/fibermonitor/fibermonitor/server/internal/api"
	"github.com/fibermonitor/fibermonitor/server/internal/auth"
	"github.com/fibermonitor/fibermonitor/server/internal/config"
	"github.com/fibermonitor/fibermonitor/server/internal/metrics"
	"github.com/fibermonitor/fibermonitor/server/internal/receiver"
	"github.com/fibermonitor/fibermonitor/server/internal/store"
	"github.com/fibermonitor/fibermonitor/server/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	envFile := flag.String("env-file", ".env", "optional dotenv file loaded before the config (missing file is ignored)")
	flag.Parse()

	var level slog.LevelVar
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: &level}))
	slog.SetDefault(logger)

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load env file", "path", *envFile, "err", err)
	}

	slog.Info("fibermonitor-server starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	level.Set(cfg.Server.Level())

	slog.Info("config loaded",
		"grpc_port", cfg.Server.GRPCPort,
		"http_port", cfg.Server.HTTPPort,
		"log_level", cfg.Server.LogLevel,
		"auth_mode", cfg.Server.Auth.Mode,
		"session_ttl", cfg.Server.Session.TTL,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Hot reload: only the log level applies without a restart.
	go func() {
		err := config.Watch(ctx, *configPath, func(next *config.Config) {
			level.Set(next.Server.Level())
			if next.Server.GRPCPort != cfg.Server.GRPCPort ||
				next.Server.HTTPPort != cfg.Server.HTTPPort ||
				next.Server.Auth != cfg.Server.Auth {
				slog.Warn("config: listener or auth changes need a restart")
			}
		})
		if err != nil {
			slog.Warn("config: watch disabled", "err", err)
		}
	}()

	// Form session store with background TTL eviction.
	st := store.New(cfg.Server.Session.TTL)
	go st.Run(ctx)

	reg := metrics.New(st.Count)

	verifier := auth.New(
		cfg.Server.Auth.Mode,
		cfg.Server.Auth.EffectiveHeader(),
		cfg.Server.Auth.Key(),
	)
	if cfg.Server.Auth.Mode == auth.ModeAPIKey && !verifier.Enabled() {
		slog.Warn("auth mode is apikey but the key env var is empty; requests are not authenticated",
			"key_env", cfg.Server.Auth.KeyEnv)
	}

	// gRPC server with optional API key authentication interceptor.
	grpcSrv := grpc.NewServer(
		grpc.ForceServerCodec(rpc.Codec{}),
		grpc.UnaryInterceptor(verifier.UnaryInterceptor()),
	)
	rpc.RegisterAssessmentServer(grpcSrv, receiver.New(reg))

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.GRPCPort))
	if err != nil {
		slog.Error("failed to listen on gRPC port",
			"port", cfg.Server.GRPCPort, "err", err)
		os.Exit(1)
	}

	go func() {
		slog.Info("gRPC assessment service listening", "port", cfg.Server.GRPCPort)
		if err := grpcSrv.Serve(lis); err != nil {
			slog.Error("gRPC server stopped", "err", err)
		}
	}()

	// WebSocket hub: one form session per connection.
	hub := ws.New(st, reg, cfg.Server.CORS.AllowedOrigins)
	go hub.Run(ctx)

	// Combined HTTP server: REST API + live form + metrics on HTTPPort.
	httpMux := http.NewServeMux()
	httpMux.Handle("/api/", api.Logging(verifier.Middleware(api.New(st, reg))))
	// Browsers cannot set headers on the handshake; they pass ?api_key=.
	httpMux.Handle("/ws/form", verifier.Middleware(hub))
	httpMux.Handle("/metrics", reg)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", cfg.Server.Auth.EffectiveHeader()},
	})

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:           c.Handler(httpMux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("fibermonitor-server shutting down")
	grpcSrv.GracefulStop()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	httpSrv.Shutdown(shutdownCtx) //nolint:errcheck
}
