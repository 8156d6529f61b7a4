package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/vishwakarma/shell/internal/infrastructure/config"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/performance"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Flags override env
	port := flag.String("port", cfg.Server.Port, "Server port")
	host := flag.String("host", cfg.Server.Host, "Listen address")
	storagePath := flag.String("storage", cfg.Storage.Path, "Store file (empty keeps state in memory)")
	mode := flag.String("mode", cfg.Performance.Mode, "Performance mode: quantum, turbo, balanced, eco")
	fps := flag.String("fps", "", `Frame rate target: a number or "unlimited" (overrides FRAME_TIME)`)
	logLevel := flag.String("log-level", cfg.Logging.Level, "Log level: debug, info, warn, error")
	dev := flag.Bool("dev", cfg.Logging.Development, "Development mode (colored logs, debug level)")
	flag.Parse()

	cfg.Server.Port = *port
	cfg.Server.Host = *host
	cfg.Storage.Path = *storagePath
	cfg.Performance.Mode = *mode
	cfg.Logging.Level = *logLevel
	cfg.Logging.Development = *dev
	if *fps != "" {
		frameTime, err := performance.ParseFPSTarget(*fps)
		if err != nil {
			return err
		}
		cfg.Scheduler.FrameTime = &frameTime
	}

	logCfg := logging.DefaultConfig()
	if cfg.Logging.Development {
		logCfg = logging.DevelopmentConfig()
	} else {
		logCfg.Level = cfg.Logging.Level
		gin.SetMode(gin.ReleaseMode)
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	logger.Info("Starting Vishwakarma shell",
		zap.String("version", server.Version),
		zap.String("addr", cfg.Server.Addr()),
		zap.String("mode", cfg.Performance.Mode),
		zap.Durationp("frame_time", cfg.Scheduler.FrameTime),
		zap.String("storage", cfg.Storage.Path),
	)

	srv, err := server.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := srv.Run(ctx)
	if err := srv.Close(); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}
	return runErr
}
