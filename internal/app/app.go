package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"recordaccess/internal/access"
	"recordaccess/internal/cache/redis"
	"recordaccess/internal/config"
	"recordaccess/internal/dbs/postgres"
	cacherecordsrepo "recordaccess/internal/repositories/cache/records"
	cachesessionrepo "recordaccess/internal/repositories/cache/session"
	recordrepo "recordaccess/internal/repositories/db/record"
	userrepo "recordaccess/internal/repositories/db/user"
	authservice "recordaccess/internal/services/auth"
	recordservice "recordaccess/internal/services/record"
	userservice "recordaccess/internal/services/user"

	"github.com/jmoiron/sqlx"
)

type App struct {
	AuthService   *authservice.AuthService
	RecordService *recordservice.RecordService

	db    *sqlx.DB
	cache *redis.Client
}

func NewApp(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	policy, err := cfg.Access.Policy()
	if err != nil {
		return nil, fmt.Errorf("invalid access policy: %w", err)
	}

	db, err := postgres.New(ctx, postgres.Config{
		Addr:     cfg.DB.Addr,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DB:       cfg.DB.DB,
		SSLMode:  cfg.DB.SSLMode,
	})
	if err != nil {
		log.Error("failed connect to db", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed connect to db: %w", err)
	}

	cache, err := redis.New(ctx, redis.Config{
		Addr:      cfg.Cache.Addr,
		Password:  cfg.Cache.Password,
		DB:        cfg.Cache.DB,
		KeyPrefix: cfg.Cache.KeyPrefix,
	})
	if err != nil {
		_ = db.Close()
		log.Error("failed connect to cache", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed connect to cache: %w", err)
	}

	userService := userservice.New(log, userrepo.NewRepository(db))

	authService := authservice.New(
		log,
		userService,
		userService,
		cachesessionrepo.New(cache, cfg.Cache.SessionTTL),
		cfg.AdminToken,
	)

	evaluator := access.New(policy, nil)

	recordService := recordservice.New(
		log,
		recordrepo.NewRepository(db),
		cacherecordsrepo.New(cache, cfg.Cache.RecordsTTL),
		evaluator,
	)

	log.Info("access policy loaded",
		slog.Any("edit_permissions", policy.EditPermissions),
		slog.Int("derivatives", len(policy.Derivatives)),
		slog.Bool("login_prompt_without_gain", policy.LoginPromptWithoutGain))

	return &App{
		AuthService:   authService,
		RecordService: recordService,
		db:            db,
		cache:         cache,
	}, nil
}

func (a *App) Close() error {
	return errors.Join(a.cache.Close(), a.db.Close())
}
