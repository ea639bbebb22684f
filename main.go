package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phillip/blood-donation-go/config"
	"github.com/phillip/blood-donation-go/logger"
	"github.com/phillip/blood-donation-go/routes"
	"github.com/phillip/blood-donation-go/store/mongostore"
)

const shutdownTimeout = 10 * time.Second

func main() {
	root := &cobra.Command{
		Use:          "blood-donation",
		Short:        "Blood donation coordination API",
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "ensure-indexes",
			Short: "Create the MongoDB indexes and exit",
			RunE:  runEnsureIndexes,
		},
	)

	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.AppEnv)
	defer func() { _ = log.Sync() }()

	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cfg.Connect(ctx); err != nil {
		log.Error("database connection failed", zap.Error(err))
		return err
	}
	if cfg.MongoClient != nil {
		defer func() {
			if err := cfg.MongoClient.Disconnect(context.Background()); err != nil {
				log.Warn("mongo disconnect failed", zap.Error(err))
			}
		}()
		if err := mongostore.EnsureIndexes(ctx, cfg.Database()); err != nil {
			log.Error("index creation failed", zap.Error(err))
			return err
		}
	}

	env, err := cfg.Env(log)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := routes.NewEngine(routes.Options{Log: log, Origins: cfg.CORSOrigins, Registry: reg})
	routes.SetupRoutes(r, env, cfg.Verifier())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server failed", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	return nil
}

func runEnsureIndexes(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.StoreDriver != config.DriverMongo {
		return errors.New("ensure-indexes requires STORE_DRIVER=mongo")
	}

	log := logger.New(cfg.AppEnv)
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	if err := cfg.Connect(ctx); err != nil {
		return err
	}
	defer func() { _ = cfg.MongoClient.Disconnect(context.Background()) }()

	if err := mongostore.EnsureIndexes(ctx, cfg.Database()); err != nil {
		return err
	}
	log.Info("indexes ensured", zap.String("database", cfg.DBName))
	return nil
}
