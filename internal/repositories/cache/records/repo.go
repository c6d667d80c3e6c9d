package cacherecordsrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"recordaccess/internal/models"
	cacherepo "recordaccess/internal/repositories/cache"
	"time"
)

const pkg = "recordsCacheRepo/"

type repository struct {
	cache     cacherepo.Cache
	recordTTL time.Duration
}

func New(cache cacherepo.Cache, recordTTL time.Duration) *repository {
	return &repository{
		cache:     cache,
		recordTTL: recordTTL,
	}
}

func recordKey(id string) string {
	return "record:" + id
}

func childrenKey(parentID string) string {
	return "children:" + parentID
}

// Record returns nil without error on a cache miss.
func (r *repository) Record(ctx context.Context, id string) (*models.ContentRecord, error) {
	op := pkg + "Record"

	raw, err := r.cache.Get(ctx, recordKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if raw == "" {
		return nil, nil
	}

	var rec models.ContentRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &rec, nil
}

func (r *repository) SetRecord(ctx context.Context, rec *models.ContentRecord) error {
	op := pkg + "SetRecord"

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return r.cache.Set(ctx, recordKey(rec.ID), string(raw), r.recordTTL).Err()
}

// Children returns nil without error on a cache miss.
func (r *repository) Children(ctx context.Context, parentID string) ([]*models.ContentRecord, error) {
	op := pkg + "Children"

	raw, err := r.cache.Get(ctx, childrenKey(parentID)).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if raw == "" {
		return nil, nil
	}

	var records []*models.ContentRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return records, nil
}

func (r *repository) SetChildren(ctx context.Context, parentID string, records []*models.ContentRecord) error {
	op := pkg + "SetChildren"

	if records == nil {
		records = []*models.ContentRecord{}
	}

	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return r.cache.Set(ctx, childrenKey(parentID), string(raw), r.recordTTL).Err()
}

// Invalidate drops the cached record and the cached child list of its parent.
func (r *repository) Invalidate(ctx context.Context, id string, parentID string) error {
	keys := []string{recordKey(id), childrenKey(id)}
	if parentID != "" {
		keys = append(keys, childrenKey(parentID))
	}

	return r.cache.Del(ctx, keys...).Err()
}
