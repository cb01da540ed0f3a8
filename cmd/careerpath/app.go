package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jonathan/career-pathfinder/internal/careerpath"
	"github.com/jonathan/career-pathfinder/internal/config"
	"github.com/jonathan/career-pathfinder/internal/db"
	"github.com/jonathan/career-pathfinder/internal/guard"
	"github.com/jonathan/career-pathfinder/internal/llm"
	"github.com/jonathan/career-pathfinder/internal/quality"
	"github.com/jonathan/career-pathfinder/internal/telemetry"
)

// newModelClient is replaced in tests.
var newModelClient = llm.NewClient

// app is the wired pipeline shared by serve and generate.
type app struct {
	cfg          *config.Config
	logger       *zap.Logger
	client       llm.Client
	database     *db.DB
	redis        *redis.Client
	emitter      *telemetry.Emitter
	orchestrator *careerpath.Orchestrator
}

// buildApp connects every collaborator the configuration enables. extraSinks
// receive telemetry alongside the configured ones.
func buildApp(ctx context.Context, cfg *config.Config, logger *zap.Logger, extraSinks ...telemetry.Sink) (_ *app, err error) {
	a := &app{cfg: cfg, logger: logger}
	defer func() {
		if err != nil {
			a.close(context.Background())
		}
	}()

	llmCfg, err := cfg.LLM.ClientConfig()
	if err != nil {
		return nil, err
	}
	a.client, err = newModelClient(ctx, llmCfg, cfg.LLM.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}

	if cfg.Database.URL != "" {
		a.database, err = db.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		if cfg.Database.Migrate {
			if err := a.database.Migrate(ctx); err != nil {
				return nil, err
			}
		}
	}

	sinks := telemetry.MultiSink(extraSinks)
	if cfg.Telemetry.HasSink(config.SinkLog) {
		sinks = append(sinks, telemetry.NewLogSink(logger))
	}
	if cfg.Telemetry.HasSink(config.SinkRedis) {
		a.redis = telemetry.NewRedisClient(cfg.Redis)
		stream := telemetry.NewRedisStreamSink(a.redis, cfg.Redis.Stream, cfg.Redis.MaxLen)
		if err := stream.Ping(ctx); err != nil {
			return nil, err
		}
		sinks = append(sinks, stream)
	}
	if cfg.Telemetry.HasSink(config.SinkPostgres) && a.database != nil {
		sinks = append(sinks, db.NewEventSink(a.database))
	}
	a.emitter = telemetry.NewEmitter(sinks, logger, cfg.Telemetry.BufferSize)

	deps := careerpath.Deps{
		Client:  a.client,
		Tier:    llm.ModelTier(cfg.LLM.Tier),
		Mapper:  guard.NewMapper(cfg.Pipeline.Guard),
		Gate:    quality.NewGate(cfg.Pipeline.Quality),
		Emitter: a.emitter,
		Logger:  logger,
	}
	if a.database != nil {
		deps.Store = a.database
		deps.Gaps = a.database
	}
	a.orchestrator, err = careerpath.New(deps)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// close drains background work, then releases connections. Background writes
// finish before the database closes.
func (a *app) close(ctx context.Context) error {
	var errs []error
	if a.orchestrator != nil {
		errs = append(errs, a.orchestrator.Close(ctx))
	}
	if a.emitter != nil {
		errs = append(errs, a.emitter.Close(ctx))
	}
	if a.client != nil {
		errs = append(errs, a.client.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.database != nil {
		a.database.Close()
	}
	return errors.Join(errs...)
}
