package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"ProductCatalog/internal/catalog"
	"ProductCatalog/internal/config"
	"ProductCatalog/pkg/kit"
)

const service = "catalog"

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	store := catalog.Instrument(catalog.NewFileStore(cfg.DataFile), catalog.NewStoreMetrics(reg))

	s := &catalog.Server{
		Service: catalog.NewService(store, log),
		Log:     log,
	}

	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
		WriteLimiter:   kit.NewIPRateLimiter(cfg.WriteLimit, cfg.WriteLimitWindow),
	})

	log.Info("catalog configured",
		zap.String("data_file", cfg.DataFile),
		zap.Int("write_limit", cfg.WriteLimit),
		zap.Duration("write_limit_window", cfg.WriteLimitWindow),
		zap.Bool("metrics", cfg.MetricsEnabled),
	)

	err = kit.RunHTTPServer(context.Background(), cfg.Addr(), h, log, kit.ServerOptions{
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ShutdownTimeout:   cfg.ShutdownTimeout,
	})
	if err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
