package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/GriffinCanCode/assetpack/internal/domain/update"
	"github.com/GriffinCanCode/assetpack/internal/infrastructure/config"
	"github.com/GriffinCanCode/assetpack/internal/infrastructure/logging"
	"github.com/GriffinCanCode/assetpack/internal/launcher"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to a TOML config file")
	dev := flag.Bool("dev", false, "Development logging")
	flag.Parse()

	os.Exit(run(*configPath, *dev))
}

func run(configPath string, dev bool) int {
	boot := logging.NewDefault()
	defer boot.Sync()

	cfg, err := loadConfig(configPath)
	if err != nil {
		boot.Error("Failed to load config", zap.Error(err))
		return 1
	}
	if dev {
		cfg.Logging.Development = true
		cfg.Logging.Level = "debug"
	}

	l, err := launcher.New(cfg)
	if err != nil {
		boot.Error("Failed to create launcher", zap.Error(err))
		return 1
	}
	defer l.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := l.Run(ctx)
	if err != nil {
		boot.Error("Startup failed", zap.Error(err))
		if res != nil && res.State == update.Blocked {
			return 2
		}
		return 1
	}

	boot.Info("Started",
		zap.String("run_id", res.RunID.String()),
		zap.String("outcome", res.Outcome.String()),
		zap.String("local", res.Local.Version),
		zap.String("remote", res.Remote.Version),
		zap.Int("stale", len(res.Stale)))

	if cfg.Metrics.Addr != "" {
		<-ctx.Done()
	}
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFile(path)
}
