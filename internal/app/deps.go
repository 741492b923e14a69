package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"github.com/Abishek0612/student-revision-app-client/internal/auth"
	"github.com/Abishek0612/student-revision-app-client/internal/cache"
	"github.com/Abishek0612/student-revision-app-client/internal/config"
	"github.com/Abishek0612/student-revision-app-client/internal/events"
	"github.com/Abishek0612/student-revision-app-client/internal/gateway"
	"github.com/Abishek0612/student-revision-app-client/internal/logger"
	"github.com/Abishek0612/student-revision-app-client/internal/metrics"
	"github.com/Abishek0612/student-revision-app-client/internal/session"
	"github.com/Abishek0612/student-revision-app-client/internal/store"
)

// Deps bundles the runtime dependencies of one client process.
type Deps struct {
	Config      config.Config
	Log         *slog.Logger
	Metrics     *metrics.Metrics
	Credentials *auth.Credential
	Session     *session.Session
	Cache       cache.Cache
	Events      events.Publisher
	// Bus is nil unless EVENTS_PROVIDER=nats.
	Bus *events.NATSBus

	logCloser io.Closer
}

// Build loads env, config, and shared components.
func Build() (Deps, error) {
	envErr := godotenv.Load()
	cfg := config.Load()
	log, closer := logger.NewWithFile(cfg.LogLevel, cfg.LogFile)
	if envErr != nil {
		log.Debug("no .env file loaded", "err", envErr)
	}

	m := metrics.New()
	creds := auth.NewCredential(cfg.AuthToken)
	st := store.New(store.WithObserver(func(a store.Action) { m.ObserveDispatch(string(a)) }))
	api := gateway.New(cfg, creds, m, log)

	c, err := buildCache(cfg, log)
	if err != nil {
		_ = closer.Close()
		return Deps{}, fmt.Errorf("failed to initialize video cache: %w", err)
	}
	pub, bus, err := buildEvents(cfg, log)
	if err != nil {
		_ = c.Close()
		_ = closer.Close()
		return Deps{}, fmt.Errorf("failed to initialize events: %w", err)
	}

	sess := session.New(st, api, c, creds, session.Options{
		MaxUploadSize: cfg.MaxUploadSize,
		VideoCacheTTL: cfg.VideoCacheTTL,
	}, m, log)

	return Deps{
		Config:      cfg,
		Log:         log,
		Metrics:     m,
		Credentials: creds,
		Session:     sess,
		Cache:       c,
		Events:      pub,
		Bus:         bus,
		logCloser:   closer,
	}, nil
}

// Close releases the cache, the event connection and the log file.
func (d Deps) Close() error {
	var errs []error
	if d.Events != nil {
		errs = append(errs, d.Events.Close())
	}
	if d.Cache != nil {
		errs = append(errs, d.Cache.Close())
	}
	if d.logCloser != nil {
		errs = append(errs, d.logCloser.Close())
	}
	return errors.Join(errs...)
}

func buildCache(cfg config.Config, log *slog.Logger) (cache.Cache, error) {
	switch cfg.VideoCacheProvider {
	case "memory":
		log.Info("using in-memory video cache", "ttl", cfg.VideoCacheTTL)
		return cache.NewMemoryCache(cfg.VideoCacheTTL), nil
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required when VIDEO_CACHE_PROVIDER=redis")
		}
		rc, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Warn("redis unavailable; recommendations will not be cached", "addr", cfg.RedisAddr, "err", err)
			return cache.NewNoOpCache(), nil
		}
		log.Info("using Redis video cache", "addr", cfg.RedisAddr)
		return rc, nil
	case "none":
		return cache.NewNoOpCache(), nil
	default:
		return nil, fmt.Errorf("invalid VIDEO_CACHE_PROVIDER: %s (valid options: memory, redis, none)", cfg.VideoCacheProvider)
	}
}

func buildEvents(cfg config.Config, log *slog.Logger) (events.Publisher, *events.NATSBus, error) {
	switch cfg.EventsProvider {
	case "nats":
		if cfg.NATSURL == "" {
			return nil, nil, fmt.Errorf("NATS_URL is required when EVENTS_PROVIDER=nats")
		}
		nc, err := nats.Connect(cfg.NATSURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		log.Info("publishing lifecycle events to NATS", "url", cfg.NATSURL)
		bus := events.NewNATS(log, nc)
		return bus, bus, nil
	case "none":
		return events.NoOpPublisher{}, nil, nil
	default:
		return nil, nil, fmt.Errorf("invalid EVENTS_PROVIDER: %s (valid options: nats, none)", cfg.EventsProvider)
	}
}
