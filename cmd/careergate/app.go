package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonathan/careergate/internal/analysis"
	"github.com/jonathan/careergate/internal/config"
	"github.com/jonathan/careergate/internal/db"
	"github.com/jonathan/careergate/internal/events"
	"github.com/jonathan/careergate/internal/ingestion"
	"github.com/jonathan/careergate/internal/llm"
	"github.com/jonathan/careergate/internal/pipeline"
	"github.com/jonathan/careergate/internal/prompts"
	"github.com/jonathan/careergate/internal/videos"
	"github.com/redis/go-redis/v9"
)

// app holds the wired services and the connections they share.
type app struct {
	cfg           *config.Config
	logger        *slog.Logger
	db            *db.DB
	rdb           *redis.Client
	publisher     events.Publisher
	llmClient     llm.Client
	compatibility *pipeline.CompatibilityService
	roadmaps      *pipeline.RoadmapService
}

// newApp connects to storage and wires the pipeline services. Redis, AMQP,
// YouTube and S3 are optional and skipped when unconfigured.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *app, err error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.LLMAPIKey == "" {
		return nil, fmt.Errorf("an LLM API key is required (set LLM_API_KEY, GEMINI_API_KEY or OPENAI_API_KEY)")
	}
	if err := prompts.Verify(); err != nil {
		return nil, fmt.Errorf("failed to load prompts: %w", err)
	}

	a := &app{cfg: cfg, logger: logger, publisher: events.NopPublisher{}}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	a.db, err = db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if cfg.RedisURL != "" {
		a.rdb, err = connectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
	}

	if cfg.AMQPURL != "" {
		exchange := cfg.AMQPExchange
		if exchange == "" {
			exchange = events.DefaultExchange
		}
		pub, err := events.NewAMQPPublisher(cfg.AMQPURL, exchange)
		if err != nil {
			return nil, err
		}
		a.publisher = pub
	}

	a.llmClient, err = llm.NewClient(ctx, cfg.LLMConfig(), cfg.LLMAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	var resumes ingestion.ResumeSource
	if cfg.S3Bucket != "" {
		resumes, err = ingestion.NewS3ResumeSource(ctx, ingestion.S3Config{
			Bucket:    cfg.S3Bucket,
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, err
		}
	}

	var searcher videos.Searcher
	if cfg.YouTubeAPIKey != "" {
		yt, err := videos.NewYouTubeSearcher(ctx, cfg.YouTubeAPIKey)
		if err != nil {
			return nil, err
		}
		searcher = yt
	}
	resolver := videos.NewResolver(searcher, videos.NewCache(a.rdb, time.Duration(cfg.VideoCacheTTL)), logger)

	var locker pipeline.Locker = pipeline.NopLocker{}
	if a.rdb != nil {
		locker = pipeline.NewRedisLocker(a.rdb, time.Duration(cfg.LockTTL))
	}

	timeout := time.Duration(cfg.CollaboratorTimeout)
	a.compatibility, err = pipeline.NewCompatibilityService(a.db, analysis.NewLLMAnalyzer(a.llmClient), pipeline.CompatibilityOptions{
		Weights:   cfg.Weights(),
		Timeout:   timeout,
		Locker:    locker,
		Publisher: a.publisher,
		Resumes:   resumes,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	builder := pipeline.NewRoadmapBuilder(analysis.NewLLMPlanGenerator(a.llmClient), resolver, timeout, logger)
	a.roadmaps = pipeline.NewRoadmapService(a.db, builder, pipeline.RoadmapOptions{
		Locker:    locker,
		Publisher: a.publisher,
		Logger:    logger,
	})

	return a, nil
}

// health pings the database and, when configured, Redis.
func (a *app) health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := a.db.Ping(ctx); err != nil {
		return err
	}
	if a.rdb != nil {
		if err := a.rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping failed: %w", err)
		}
	}
	return nil
}

// Close releases every connection the app opened.
func (a *app) Close() {
	if a.llmClient != nil {
		if err := a.llmClient.Close(); err != nil {
			a.logger.Warn("failed to close LLM client", slog.Any("error", err))
		}
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("failed to close event publisher", slog.Any("error", err))
		}
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}

func connectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

// loadConfig reads the config and builds the logger every command uses.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger := config.NewLogger(cfg.LogLevel, rootCmd.ErrOrStderr())
	slog.SetDefault(logger)
	return cfg, logger, nil
}
