package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/spacesedan/sentidash/config"
	"github.com/spacesedan/sentidash/internal/api"
	"github.com/spacesedan/sentidash/internal/clients"
	"github.com/spacesedan/sentidash/internal/dashboard"
	"github.com/spacesedan/sentidash/internal/db"
	"github.com/spacesedan/sentidash/internal/logging"
	"github.com/spacesedan/sentidash/internal/monitoring"
)

const shutdownTimeout = 10 * time.Second

func main() {
	env := config.AppEnv()
	config.LoadEnv(env)

	cfg, err := config.Load()
	if err != nil {
		logging.InitLogger(os.Stdout, slog.LevelInfo)
		slog.Error("[Main] Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logging.InitLogger(os.Stdout, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("[Main] Server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	shutdownTracing, err := monitoring.InitTracing(ctx, cfg.Tracing, cfg.Env)
	if err != nil {
		return err
	}
	defer func() {
		c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(c); err != nil {
			slog.Warn("[Main] Failed to flush traces", slog.String("error", err.Error()))
		}
	}()

	pg, err := clients.NewPostgresClient(ctx, cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer pg.Close()

	var opts []api.Option
	if cfg.Cache.Enabled() {
		vc, err := clients.NewValkeyClient(ctx, clients.ValkeyOptions{
			Address:  cfg.Cache.Address,
			Password: cfg.Cache.Password,
			TLS:      cfg.Cache.TLS,
			TTL:      cfg.Cache.TTL,
		})
		if err != nil {
			return err
		}
		defer vc.Close()
		opts = append(opts, api.WithCache(vc))
	}

	mux := http.NewServeMux()
	api.New(db.NewTweetStore(pg.DB), opts...).Routes(mux)

	page := dashboard.NewPage(dashboard.NewClient(cfg.DashboardAPIURL, cfg.HTTPClientTimeout))
	mux.Handle("GET /{$}", monitoring.InstrumentRoute("/", page))
	mux.Handle("GET /metrics", monitoring.Handler())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           otelhttp.NewHandler(mux, "http.server"),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("[Main] Listening",
			slog.String("addr", cfg.Addr),
			slog.String("env", cfg.Env),
			slog.Bool("cache", cfg.Cache.Enabled()),
			slog.Bool("tracing", cfg.Tracing.Enabled()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("[Main] Shutting down")

		c, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(c)
	})

	return g.Wait()
}
