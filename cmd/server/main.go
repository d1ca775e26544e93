package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/turtacn/mrsa/internal/application"
	"github.com/turtacn/mrsa/internal/config"
	"github.com/turtacn/mrsa/internal/infrastructure/audit"
	"github.com/turtacn/mrsa/internal/infrastructure/monitoring"
	"github.com/turtacn/mrsa/internal/infrastructure/persistence/sqlite"
	mrsahttp "github.com/turtacn/mrsa/internal/interfaces/http"
	"github.com/turtacn/mrsa/internal/interfaces/http/handlers"
	"github.com/turtacn/mrsa/internal/interfaces/http/middleware"
	"github.com/turtacn/mrsa/pkg/logger"
	"github.com/turtacn/mrsa/pkg/mrsa"
)

func main() {
	var configPath string
	cmd := &cobra.Command{
		Use:          "mrsa-server",
		Short:        "Serve the mini-RSA key API over HTTP",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to the config file")

	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(configPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	v, err := config.NewViper(configPath)
	if err != nil {
		return err
	}
	cfg, err := config.Decode(v)
	if err != nil {
		return err
	}

	// Initialize logger
	appLogger, level := monitoring.NewZapLogger(&cfg.Log)
	if v.ConfigFileUsed() != "" {
		// only the log level is applied without a restart
		config.Watch(v, appLogger, func(next *config.Config) {
			monitoring.SetLevel(level, next.Log.Level)
			appLogger.Info(ctx, "Log level updated", logger.Fields{"level": next.Log.Level})
		})
	}

	// Initialize metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := monitoring.NewMetrics(reg)

	var httpMetrics *middleware.HTTPMetrics
	if cfg.Metrics.Enabled {
		httpMetrics = middleware.NewHTTPMetrics(reg)
	}

	// Initialize key store
	db, err := sqlite.Open(ctx, cfg.Store.DSN, appLogger)
	if err != nil {
		return err
	}
	defer func() { _ = sqlite.Close(db) }()
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	// Initialize application services
	gen := mrsa.NewGenerator(nil, mrsa.WithLogger(appLogger), mrsa.WithObserver(metrics))
	keySvc := application.NewKeyManagementService(gen, sqlite.NewKeyRepository(db), metrics, audit.NewGormAuditService(db), cfg, appLogger)

	router := mrsahttp.NewRouter(
		cfg,
		appLogger,
		handlers.NewHealthHandler(sqlDB, appLogger),
		handlers.NewKeyHandler(keySvc, appLogger),
		handlers.NewPrimalityHandler(),
		httpMetrics,
		reg,
	)

	if err := router.Start(ctx); err != nil {
		appLogger.Error(ctx, "HTTP server failed", err)
		return err
	}
	appLogger.Info(ctx, "HTTP server stopped")
	return nil
}
