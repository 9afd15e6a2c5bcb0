package main

import (
	"context"
	"fmt"

	"github.com/richxcame/restaurant-backoffice/internal/dashboard"
	"github.com/richxcame/restaurant-backoffice/internal/receipts"
	"github.com/richxcame/restaurant-backoffice/internal/reservations"
	"github.com/richxcame/restaurant-backoffice/internal/reviews"
	"github.com/richxcame/restaurant-backoffice/internal/seed"
	"github.com/richxcame/restaurant-backoffice/internal/templates"
	"github.com/richxcame/restaurant-backoffice/pkg/common"
	"github.com/richxcame/restaurant-backoffice/pkg/config"
	"github.com/richxcame/restaurant-backoffice/pkg/database"
	"github.com/richxcame/restaurant-backoffice/pkg/eventbus"
	"github.com/richxcame/restaurant-backoffice/pkg/health"
	"github.com/richxcame/restaurant-backoffice/pkg/llm"
	"github.com/richxcame/restaurant-backoffice/pkg/logger"
	"github.com/richxcame/restaurant-backoffice/pkg/ratelimit"
	"github.com/richxcame/restaurant-backoffice/pkg/redis"
	"github.com/richxcame/restaurant-backoffice/pkg/sms"
	"github.com/richxcame/restaurant-backoffice/pkg/storage"
	"go.uber.org/zap"
)

// app holds every wired component of the service
type app struct {
	cfg   *config.Config
	db    *database.DB
	redis *redis.Client
	bus   *eventbus.Bus
	store storage.Storage

	repos seed.Repositories

	receipts     *receipts.Service
	reviews      *reviews.Service
	reservations *reservations.Service
	templates    *templates.Service
	dashboard    *dashboard.Service

	limiter *ratelimit.Limiter
}

// newApp connects the configured backends and builds the feature services.
// Optional backends (Redis, NATS, OpenAI, Twilio) are skipped when disabled.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg}

	db, repos, err := openRepositories(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}
	a.db = db
	a.repos = repos

	if cfg.Redis.Enabled {
		client, err := redis.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.redis = client
		logger.Info("Connected to Redis", zap.String("addr", cfg.Redis.RedisAddr()))
	}

	if cfg.NATS.Enabled {
		bus, err := eventbus.Connect(cfg.NATS.URL, cfg.Server.ServiceName)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.bus = bus
		logger.Info("Connected to NATS", zap.String("url", cfg.NATS.URL))
	}

	store, err := openStorage(ctx, &cfg.Storage)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.store = store

	var notifier sms.Sender
	if cfg.SMS.Enabled {
		sender, err := sms.NewTwilioSender(cfg.SMS)
		if err != nil {
			a.Close()
			return nil, err
		}
		notifier = sender
	}

	// Interfaces stay nil rather than holding typed nil pointers so services take their fallback paths
	var (
		visionAnalyzer receipts.VisionAnalyzer
		textAnalyzer   reviews.TextAnalyzer
		summaries      reviews.SummaryGenerator
		confirmations  reservations.ConfirmationWriter
		publisher      eventbus.Publisher
		cache          dashboard.Cache
	)
	if cfg.AI.APIKey != "" {
		client := llm.NewClient(cfg.AI)
		visionAnalyzer = receipts.NewOpenAIAnalyzer(client)
		reviewAnalyzer := reviews.NewOpenAIAnalyzer(client)
		textAnalyzer = reviewAnalyzer
		summaries = reviewAnalyzer
		confirmations = reservations.NewOpenAIWriter(client)
	} else {
		logger.Warn("OPENAI_API_KEY not set, analysis runs on local fallbacks")
	}
	if a.bus != nil {
		publisher = a.bus
	}
	if a.redis != nil {
		cache = a.redis
		if cfg.RateLimit.Enabled {
			a.limiter = ratelimit.NewLimiter(a.redis.Client, cfg.RateLimit)
		}
	}

	a.receipts = receipts.NewService(repos.Receipts, receipts.NewAnalysisService(visionAnalyzer), store, publisher, receipts.ServiceConfig{
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	})
	a.reviews = reviews.NewService(repos.Reviews, reviews.NewInsightService(textAnalyzer), reviews.NewSummaryService(summaries), publisher)
	a.reservations = reservations.NewService(repos.Reservations, reservations.NewConfirmationService(confirmations), notifier, publisher)
	a.templates = templates.NewService(repos.Templates)
	a.dashboard = dashboard.NewService(repos.Receipts, repos.Reviews, repos.Reservations, cache)

	if a.bus != nil {
		if err := a.dashboard.SubscribeInvalidation(ctx, a.bus); err != nil {
			a.Close()
			return nil, err
		}
	}

	return a, nil
}

// openRepositories returns SQL-backed repositories for postgres and sqlite
// and in-memory ones otherwise. db is nil for the memory driver.
func openRepositories(ctx context.Context, cfg *config.DatabaseConfig) (*database.DB, seed.Repositories, error) {
	if cfg.Driver == "memory" {
		logger.Warn("Using in-memory storage, data is lost on restart")
		return nil, seed.Repositories{
			Receipts:     receipts.NewMemoryRepository(),
			Reviews:      reviews.NewMemoryRepository(),
			Reservations: reservations.NewMemoryRepository(),
			Templates:    templates.NewMemoryRepository(),
		}, nil
	}

	db, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, seed.Repositories{}, err
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, seed.Repositories{}, err
	}
	logger.Info("Connected to database", zap.String("driver", cfg.Driver))

	return db, seed.Repositories{
		Receipts:     receipts.NewRepository(db),
		Reviews:      reviews.NewRepository(db),
		Reservations: reservations.NewRepository(db),
		Templates:    templates.NewRepository(db),
	}, nil
}

func openStorage(ctx context.Context, cfg *config.StorageConfig) (storage.Storage, error) {
	switch cfg.Provider {
	case "s3":
		return storage.NewS3Storage(ctx, *cfg)
	case "local":
		return storage.NewLocalStorage(cfg.LocalPath, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported storage provider %q", cfg.Provider)
	}
}

// readinessChecks lists the dependencies /health/ready probes
func (a *app) readinessChecks() map[string]common.DependencyCheck {
	checks := map[string]common.DependencyCheck{
		"storage": health.PingChecker(a.store),
	}
	if a.db != nil {
		checks["database"] = health.DatabaseChecker(a.db.DB)
	}
	if a.redis != nil {
		checks["redis"] = health.RedisChecker(a.redis.Client)
	}
	if a.bus != nil {
		checks["nats"] = health.PingChecker(a.bus)
	}
	return checks
}

// Close releases every backend connection
func (a *app) Close() {
	if a.bus != nil {
		a.bus.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			logger.Warn("Failed to close Redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			logger.Warn("Failed to close database", zap.Error(err))
		}
	}
}
