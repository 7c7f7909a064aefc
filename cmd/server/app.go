package main

import (
	"context"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"go.uber.org/zap"

	"github.com/KirkDiggler/rpg-progression/internal/clients/external"
	"github.com/KirkDiggler/rpg-progression/internal/config"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
	v1alpha1 "github.com/KirkDiggler/rpg-progression/internal/handlers/progression/v1alpha1"
	"github.com/KirkDiggler/rpg-progression/internal/orchestrators/character"
	"github.com/KirkDiggler/rpg-progression/internal/orchestrators/progression"
	"github.com/KirkDiggler/rpg-progression/internal/orchestrators/resources"
	"github.com/KirkDiggler/rpg-progression/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-progression/internal/progression/calculator"
	"github.com/KirkDiggler/rpg-progression/internal/redis"
	characterrepo "github.com/KirkDiggler/rpg-progression/internal/repositories/character"
	"github.com/KirkDiggler/rpg-progression/internal/rules"
)

const defaultPingTimeout = 5 * time.Second

// app holds the wired service and whatever must be closed on shutdown
type app struct {
	handler *v1alpha1.Handler
	closers []func() error
}

// newApp wires config into storage, rule tables, orchestrators and the handler
func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{}

	repo, closer, err := buildRepository(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}

	registry, err := buildRegistry(cfg.Rules, logger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	calc, err := calculator.New(&calculator.Config{
		Rules:  registry,
		Logger: logger.Named("calculator"),
	})
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	catalog, err := buildSpellCatalog(cfg.Spells, logger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	bus := events.NewBus()

	levels, err := progression.NewOrchestrator(&progression.Config{
		CharacterRepo: repo,
		Calculator:    calc,
		IDGenerator:   idgen.NewUUID("levelup"),
		EventBus:      bus,
		SpellCatalog:  catalog,
		SessionTTL:    cfg.Progression.SessionTTL,
		Logger:        logger.Named("progression"),
	})
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	pools, err := resources.NewOrchestrator(&resources.Config{
		CharacterRepo: repo,
		Rules:         registry,
		EventBus:      bus,
		Logger:        logger.Named("resources"),
	})
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	roster, err := character.New(&character.Config{
		CharacterRepo: repo,
		Rules:         registry,
		IDGenerator:   idgen.NewUUID("char"),
		Logger:        logger.Named("roster"),
		EventBus:      bus,
	})
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.handler, err = v1alpha1.NewHandler(&v1alpha1.HandlerConfig{
		ProgressionService: levels,
		ResourceService:    pools,
		CharacterService:   roster,
		Logger:             logger.Named("handler"),
	})
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	return a, nil
}

// Close releases storage handles in reverse order of creation
func (a *app) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

// buildRepository opens the configured character store. The returned closer
// may be nil.
func buildRepository(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (characterrepo.Repository, func() error, error) {
	logger = logger.Named("repository").With(zap.String("backend", cfg.Backend))

	switch cfg.Backend {
	case config.StorageMemory:
		logger.Info("using in-memory character store")
		return characterrepo.NewInMemory(nil), nil, nil

	case config.StorageRedis:
		client, err := redis.NewClient(cfg.Redis.Endpoint, &redis.Options{
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			UseTLS:     cfg.Redis.UseTLS,
		})
		if err != nil {
			return nil, nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid redis settings")
		}
		pingTimeout := cfg.Redis.PingTimeout
		if pingTimeout <= 0 {
			pingTimeout = defaultPingTimeout
		}
		if err := redis.Ping(ctx, client, pingTimeout); err != nil {
			_ = client.Close()
			return nil, nil, errors.WrapWithCode(err, errors.CodeUnavailable, "redis is unreachable")
		}
		repo, err := characterrepo.NewRedis(&characterrepo.RedisConfig{
			Client: client,
			Logger: logger,
		})
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		logger.Info("using redis character store", zap.String("endpoint", cfg.Redis.Endpoint))
		return repo, client.Close, nil

	case config.StorageSQLite:
		repo, err := characterrepo.NewSQLite(&characterrepo.SQLiteConfig{
			Path:   cfg.SQLite.Path,
			Logger: logger,
		})
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using sqlite character store", zap.String("path", cfg.SQLite.Path))
		return repo, repo.Close, nil
	}

	return nil, nil, errors.InvalidArgumentf("unknown storage backend %q", cfg.Backend)
}

// buildRegistry loads the SRD tables plus any homebrew profiles
func buildRegistry(cfg config.RulesConfig, logger *zap.Logger) (*rules.Registry, error) {
	registry, err := rules.NewRegistry(&rules.Config{Logger: logger.Named("rules")})
	if err != nil {
		return nil, err
	}
	if cfg.HomebrewDir == "" {
		return registry, nil
	}

	n, err := registry.LoadInto(cfg.HomebrewDir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load homebrew classes from %s", cfg.HomebrewDir)
	}
	logger.Info("loaded homebrew classes",
		zap.String("dir", cfg.HomebrewDir),
		zap.Int("count", n))
	return registry, nil
}

// buildSpellCatalog returns nil when the catalog is disabled
func buildSpellCatalog(cfg config.SpellsConfig, logger *zap.Logger) (external.Client, error) {
	if !cfg.CatalogEnabled {
		return nil, nil
	}
	return external.New(&external.Config{
		BaseURL:     cfg.BaseURL,
		HTTPTimeout: cfg.HTTPTimeout,
		CacheTTL:    cfg.CacheTTL,
		Logger:      logger.Named("spells"),
	})
}
