package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/termgate/termgate/internal/config"
	"github.com/termgate/termgate/internal/logging"
	"github.com/termgate/termgate/internal/mcp"
	"github.com/termgate/termgate/internal/monitoring"
	"github.com/termgate/termgate/internal/provider"
	"github.com/termgate/termgate/internal/transcript"
)

var version = "1.0.0"

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Path to YAML config file")
	pathArgs := flag.String("process-path-args", "", "Base command and immutable arguments (overrides config)")
	forbidden := flag.String("forbidden-words", "", "Comma-separated forbidden substrings (overrides config)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	monitorAddr := flag.String("monitor", "", "Observer listen address, e.g. 127.0.0.1:8700 (overrides config)")
	transcriptPath := flag.String("transcript", "", "Transcript file path (overrides config)")
	describe := flag.Bool("describe", false, "Print the tool catalog as JSON and exit")
	flag.Parse()

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Flags win over file and environment values.
	if *pathArgs != "" {
		cfg.Process.PathArgs = *pathArgs
	}
	if *forbidden != "" {
		cfg.Gate.ForbiddenWords = strings.Split(*forbidden, ",")
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *monitorAddr != "" {
		cfg.Monitor.Addr = *monitorAddr
	}
	if *transcriptPath != "" {
		cfg.Transcript.Path = *transcriptPath
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	if *describe {
		prov, err := provider.New(cfg, logging.NewNop(), nil, nil)
		if err != nil {
			log.Fatalf("Failed to create provider: %v", err)
		}
		data, err := sonic.MarshalIndent(prov.Definition(), "", "  ")
		if err != nil {
			log.Fatalf("Failed to encode catalog: %v", err)
		}
		fmt.Println(string(data))
		return
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Development = cfg.Logging.Development
	logger, err := logging.New(logCfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	metrics := monitoring.NewMetrics()

	var rec *transcript.Recorder
	if cfg.Transcript.Path != "" {
		rec, err = transcript.NewRecorder(cfg.Transcript.Path)
		if err != nil {
			log.Fatalf("Failed to open transcript: %v", err)
		}
	}

	prov, err := provider.New(cfg, logger, metrics, rec)
	if err != nil {
		log.Fatalf("Failed to create provider: %v", err)
	}

	logger.Info("starting termgate",
		zap.String("version", version),
		zap.String("process", cfg.Process.PathArgs),
	)

	var listener *monitoring.Listener
	if cfg.Monitor.Addr != "" {
		listener = monitoring.NewListener(monitoring.ListenerConfig{
			Addr:              cfg.Monitor.Addr,
			ScreenInterval:    cfg.Monitor.ScreenInterval,
			RequestsPerSecond: cfg.Monitor.RequestsPerSecond,
			Burst:             cfg.Monitor.Burst,
		}, logger, metrics, prov.Manager())
		go func() {
			if err := listener.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("observer listener failed", zap.Error(err))
			}
		}()
	}

	srv := mcp.NewServer(cfg, prov, logger, version)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Serve()
	}()

	select {
	case <-sigChan:
		logger.Info("shutting down")
	case err := <-errChan:
		if err != nil {
			logger.Error("stdio server exited", zap.Error(err))
		}
	}

	if listener != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := listener.Shutdown(ctx); err != nil {
			logger.Error("observer shutdown failed", zap.Error(err))
		}
		cancel()
	}
	prov.Close()
	if rec != nil {
		if err := rec.Close(); err != nil {
			logger.Error("transcript close failed", zap.Error(err))
		}
	}
}
