package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/career-pathfinder/internal/config"
	"github.com/jonathan/career-pathfinder/internal/logging"
	"github.com/jonathan/career-pathfinder/internal/server"
)

var serveAddress string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  `Start an HTTP server that exposes POST /career-paths, GET /career-paths/{id}, GET /health and GET /metrics.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddress, "addr", "", "Address to listen on (overrides server.address)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if serveAddress != "" {
		cfg.Server.Address = serveAddress
	}
	if cfg.LLM.APIKey == "" {
		return fmt.Errorf("an API key is required (set CAREERPATH_LLM_API_KEY or the provider's variable)")
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}

	opts := []server.Option{}
	if a.database != nil {
		opts = append(opts,
			server.WithResults(a.database),
			server.WithHealthCheck("postgres", a.database.Ping))
	}
	if a.redis != nil {
		opts = append(opts, server.WithHealthCheck("redis", func(ctx context.Context) error {
			return a.redis.Ping(ctx).Err()
		}))
	}
	srv := server.New(server.Config{
		Address:        cfg.Server.Address,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		RequestTimeout: cfg.Server.RequestTimeout,
		CORSOrigin:     cfg.Server.CORSOrigin,
		RateLimit:      cfg.RateLimit,
	}, a.orchestrator, logger, opts...)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.ListenAndServe)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return a.close(shutdownCtx)
	})

	err = g.Wait()
	if err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}
