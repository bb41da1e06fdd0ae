package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/watertrack/internal/config"
	"github.com/rpggio/watertrack/internal/domain/activity"
	"github.com/rpggio/watertrack/internal/domain/intake"
	"github.com/rpggio/watertrack/internal/domain/profile"
	"github.com/rpggio/watertrack/internal/filestore"
	"github.com/rpggio/watertrack/internal/mcp"
	"github.com/rpggio/watertrack/internal/snapshot"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == config.TransportStdio {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer fileWriter.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	}))

	for _, path := range []string{cfg.Data.Path, cfg.Data.ActivityPath} {
		if err := ensureDir(path); err != nil {
			logger.Error("failed to prepare data directory", "path", path, "error", err)
			os.Exit(1)
		}
	}

	store, err := filestore.Open(cfg.Data.Path, logger)
	if err != nil {
		logger.Error("failed to open data file", "path", cfg.Data.Path, "error", err)
		os.Exit(1)
	}
	activityRepo, err := filestore.OpenActivityRepository(cfg.Data.ActivityPath, logger)
	if err != nil {
		logger.Error("failed to open activity log", "path", cfg.Data.ActivityPath, "error", err)
		os.Exit(1)
	}

	profileSvc := profile.NewService(filestore.NewProfileRepository(store), activityRepo, logger)
	intakeSvc := intake.NewService(
		filestore.NewIntakeRepository(store),
		profileSvc,
		activityRepo,
		intake.Limits{MaxSingleML: cfg.Limits.MaxSingleIntakeML, MaxDailyML: cfg.Limits.MaxDailyML},
		logger,
	)
	activitySvc := activity.NewService(activityRepo, logger)
	serializer := snapshot.NewSerializer(store, store, activityRepo, logger)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Profiles: profileSvc,
			Intake:   intakeSvc,
			State:    serializer,
			Activity: activitySvc,
		},
		Logger: logger,
	})

	logger.Info("data loaded", "path", store.Path(), "activity_path", cfg.Data.ActivityPath)

	if cfg.Transport.Mode == config.TransportStdio {
		runStdioMode(logger, mcpServer)
	} else {
		runHTTPMode(logger, mcpServer, cfg.Server.Host, cfg.Server.Port)
	}
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server) {
	logger.Info("starting stdio transport")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
	logger.Info("shutting down")
}

func runHTTPMode(logger *slog.Logger, mcpServer *sdkmcp.Server, host string, port int) {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	router := http.NewServeMux()
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/", mcpHandler)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func ensureDir(path string) error {
	if path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
