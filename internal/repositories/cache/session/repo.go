package cachesessionrepo

import (
	"context"
	"recordaccess/internal/models"
	cacherepo "recordaccess/internal/repositories/cache"
	"time"
)

const keyPrefix = "session:"

type repository struct {
	cache      cacherepo.Cache
	sessionTTL time.Duration
}

func New(cache cacherepo.Cache, sessionTTL time.Duration) *repository {
	return &repository{
		cache:      cache,
		sessionTTL: sessionTTL,
	}
}

func (r *repository) SaveSession(ctx context.Context, token string, userJSON string) error {
	return r.cache.Set(ctx, keyPrefix+token, userJSON, r.sessionTTL).Err()
}

func (r *repository) DeleteSession(ctx context.Context, token string) error {
	return r.cache.Del(ctx, keyPrefix+token).Err()
}

func (r *repository) UserByToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", models.ErrSessionNotFound
	}

	userJSON, err := r.cache.Get(ctx, keyPrefix+token).Result()
	if err != nil {
		return "", err
	}

	if userJSON == "" {
		return "", models.ErrSessionNotFound
	}

	return userJSON, nil
}
