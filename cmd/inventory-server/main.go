package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/MFahim14/test-assignment/internal/config"
	"github.com/MFahim14/test-assignment/internal/db"
	"github.com/MFahim14/test-assignment/internal/events"
	httpapi "github.com/MFahim14/test-assignment/internal/http"
	"github.com/MFahim14/test-assignment/internal/inventory"
	"github.com/MFahim14/test-assignment/internal/logging"
	"github.com/MFahim14/test-assignment/internal/metrics"
	"github.com/MFahim14/test-assignment/internal/transform"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "inventory-server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- DB ---
	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.Storage.Driver, cfg.Storage.DSN, logger); err != nil {
			return fmt.Errorf("db migrate: %w", err)
		}
	}

	repo, closeRepo, err := openRepository(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer closeRepo()

	// --- Metrics ---
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// --- AMQP ---
	recorderOpts := []transform.Option{
		transform.WithApplyDelay(cfg.TransformDelay),
		transform.WithObserver(m),
	}
	if cfg.AMQP.URL != "" {
		conn, err := events.Dial(cfg.AMQP.URL)
		if err != nil {
			return err
		}
		defer conn.Close()

		pub, err := events.NewPublisher(conn, events.PublisherOptions{
			Exchange: cfg.AMQP.Exchange,
			Producer: cfg.ServiceName,
		})
		if err != nil {
			return fmt.Errorf("start publisher: %w", err)
		}
		defer pub.Close()

		recorderOpts = append(recorderOpts, transform.WithEventSink(pub))
		logger.Info("amqp_publisher_ready", zap.String("exchange", cfg.AMQP.Exchange))
	}

	// --- HTTP ---
	svc := inventory.NewService(repo, logger, m)
	rec := transform.NewRecorder(logger, recorderOpts...)
	h := httpapi.NewHandler(svc, rec, logger)
	r := httpapi.NewRouter(h, httpapi.RouterOptions{Metrics: m, Gatherer: reg})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("http_server_start",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("storage", cfg.Storage.Driver),
		zap.Duration("transform_delay", cfg.TransformDelay),
	)

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// In-flight transforms are allowed to finish their delay.
	err = serve(httpServer, sigCh, cfg.TransformDelay+10*time.Second, logger)
	cancel()

	logger.Info("shutdown_complete")
	return err
}

// serve runs srv until a signal arrives or the listener fails, then shuts it down.
// A listener failure is returned so the process exits non-zero.
func serve(srv *http.Server, sigCh <-chan os.Signal, shutdownTimeout time.Duration, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var serveErr error
	select {
	case sig := <-sigCh:
		logger.Info("shutdown_signal", zap.String("signal", sig.String()))
	case serveErr = <-errCh:
		logger.Error("http_server_error", zap.Error(serveErr))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_server_shutdown_error", zap.Error(err))
	}

	if serveErr != nil {
		return fmt.Errorf("http server: %w", serveErr)
	}
	return nil
}

func loadConfig(args []string) (config.Config, error) {
	fs := pflag.NewFlagSet("inventory-server", pflag.ContinueOnError)
	configPath := fs.String("config", os.Getenv("CONFIG_FILE"), "path to a YAML config file")
	addr := fs.String("addr", "", "HTTP listen address (overrides config)")
	driver := fs.String("storage", "", "storage driver: sqlite or postgres (overrides config)")
	dsn := fs.String("dsn", "", "database path or DSN (overrides config)")
	delay := fs.Duration("transform-delay", -1, "minimum latency of POST /transform (overrides config)")
	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return config.Config{}, err
	}
	if *addr != "" {
		cfg.HTTPAddr = *addr
	}
	if *driver != "" {
		cfg.Storage.Driver = *driver
	}
	if *dsn != "" {
		cfg.Storage.DSN = *dsn
	}
	if *delay >= 0 {
		cfg.TransformDelay = *delay
	}
	return cfg, cfg.Validate()
}

func openRepository(ctx context.Context, st config.Storage) (inventory.Repository, func(), error) {
	switch st.Driver {
	case db.DriverPostgres:
		pool, err := db.NewPool(ctx, st.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("db connect: %w", err)
		}
		return inventory.NewPostgresRepository(pool), pool.Close, nil
	case db.DriverSQLite:
		conn, err := db.OpenSQLite(st.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("db connect: %w", err)
		}
		return inventory.NewSQLiteRepository(conn), func() { closeQuietly(conn) }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", st.Driver)
	}
}

func closeQuietly(conn *sql.DB) { _ = conn.Close() }
