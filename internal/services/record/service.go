package recordservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"recordaccess/internal/models"
	"time"
)

const pkg = "recordService/"

type RecordService struct {
	log       *slog.Logger
	repo      RecordRepository
	cache     RecordCache
	evaluator Evaluator
	now       func() time.Time
}

func New(
	log *slog.Logger,
	repo RecordRepository,
	cache RecordCache,
	evaluator Evaluator,
) *RecordService {
	return &RecordService{
		log:       log,
		repo:      repo,
		cache:     cache,
		evaluator: evaluator,
		now:       time.Now,
	}
}

// SaveRecord inserts or replaces a record pushed by the metadata collaborator.
func (rs *RecordService) SaveRecord(ctx context.Context, rec *models.ContentRecord) error {
	op := pkg + "SaveRecord"

	log := rs.log.With(slog.String("op", op))

	if rec == nil || rec.ID == "" || rec.ResourceType == "" || rec.ParentID == rec.ID {
		log.Warn("invalid record")
		return fmt.Errorf("%s: %w", op, models.ErrInvalidParams)
	}

	log.Debug("attempting to save record", slog.String("record_id", rec.ID), slog.String("type", rec.ResourceType))

	prev, err := rs.repo.RecordByID(ctx, rec.ID)
	if err != nil && !errors.Is(err, models.ErrRecordNotFound) {
		log.Error("failed to load previous record", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	rec.UpdatedAt = rs.now().UTC()

	if err := rs.repo.SaveRecord(ctx, rec); err != nil {
		log.Error("failed to save record", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	rs.invalidate(ctx, log, rec.ID, rec.ParentID)
	if prev != nil && prev.ParentID != rec.ParentID {
		rs.invalidate(ctx, log, prev.ID, prev.ParentID)
	}

	log.Debug("record saved successfully", slog.String("record_id", rec.ID))

	return nil
}

func (rs *RecordService) DeleteRecord(ctx context.Context, id string) error {
	op := pkg + "DeleteRecord"

	log := rs.log.With(slog.String("op", op))

	log.Debug("attempting to delete record", slog.String("record_id", id))

	rec, err := rs.repo.RecordByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			log.Warn("record not found", slog.String("record_id", id))
			return fmt.Errorf("%s: %w", op, models.ErrRecordNotFound)
		}
		log.Error("failed to get record", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if err := rs.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			log.Warn("record already deleted", slog.String("record_id", id))
			return fmt.Errorf("%s: %w", op, models.ErrRecordNotFound)
		}
		log.Error("failed to delete record", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	rs.invalidate(ctx, log, rec.ID, rec.ParentID)

	log.Debug("record deleted successfully", slog.String("record_id", id))

	return nil
}

// RecordAccess evaluates the affordances a viewer gets on a single record.
func (rs *RecordService) RecordAccess(ctx context.Context, id string, viewer models.Viewer) (models.Decision, error) {
	op := pkg + "RecordAccess"

	log := rs.log.With(slog.String("op", op))

	log.Debug("attempting to evaluate record access", slog.String("record_id", id), slog.Bool("logged_in", viewer.IsLoggedIn))

	rec, err := rs.record(ctx, id)
	if err != nil {
		return models.Decision{}, fmt.Errorf("%s: %w", op, err)
	}

	decision := rs.evaluator.Evaluate(rec, viewer)

	if decision.Embargo.Malformed {
		log.Warn("malformed embargo date, treating record as embargoed",
			slog.String("record_id", rec.ID),
			slog.String("embargo_date", rec.EmbargoDate))
	}

	log.Debug("record access evaluated",
		slog.String("record_id", rec.ID),
		slog.Bool("restricted", decision.Restricted.Visible),
		slog.Int("downloads", len(decision.Downloads)))

	return decision, nil
}

// FileList returns the file children of a work with their per-file affordances.
// A limit of zero or less returns every file.
func (rs *RecordService) FileList(ctx context.Context, workID string, viewer models.Viewer, limit int) (models.FileList, error) {
	op := pkg + "FileList"

	log := rs.log.With(slog.String("op", op))

	log.Debug("attempting to list files", slog.String("work_id", workID), slog.Int("limit", limit))

	if _, err := rs.record(ctx, workID); err != nil {
		return models.FileList{}, fmt.Errorf("%s: %w", op, err)
	}

	children, err := rs.children(ctx, workID)
	if err != nil {
		return models.FileList{}, fmt.Errorf("%s: %w", op, err)
	}

	total := len(children)

	if limit > 0 && len(children) > limit {
		children = children[:limit]
	}

	entries := make([]models.FileEntry, 0, len(children))
	for _, child := range children {
		entries = append(entries, models.FileEntry{
			Record:       child,
			Embargo:      rs.evaluator.EmbargoStatus(child),
			ViewOriginal: rs.evaluator.ViewOriginalAffordanceVisible(child, viewer),
			Downloads:    rs.evaluator.DownloadOptions(child, viewer),
			Badges:       rs.evaluator.Badges(child),
		})
	}

	log.Debug("files listed successfully", slog.String("work_id", workID), slog.Int("count", len(entries)), slog.Int("total", total))

	return models.FileList{Total: total, Entries: entries}, nil
}

func (rs *RecordService) record(ctx context.Context, id string) (*models.ContentRecord, error) {
	op := pkg + "record"

	log := rs.log.With(slog.String("op", op))

	rec, err := rs.cache.Record(ctx, id)
	if err != nil {
		log.Warn("failed to get record from cache", slog.String("error", err.Error()))
	}
	if rec != nil {
		return rec, nil
	}

	rec, err = rs.repo.RecordByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			log.Warn("record not found", slog.String("record_id", id))
			return nil, models.ErrRecordNotFound
		}
		log.Error("failed to get record", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	if err := rs.cache.SetRecord(ctx, rec); err != nil {
		log.Warn("failed to set record to cache", slog.String("error", err.Error()))
	}

	return rec, nil
}

func (rs *RecordService) children(ctx context.Context, parentID string) ([]*models.ContentRecord, error) {
	op := pkg + "children"

	log := rs.log.With(slog.String("op", op))

	children, err := rs.cache.Children(ctx, parentID)
	if err != nil {
		log.Warn("failed to get children from cache", slog.String("error", err.Error()))
	}
	if children != nil {
		return children, nil
	}

	children, err = rs.repo.FilteredRecords(ctx, models.RecordFilter{
		ParentID:     parentID,
		ResourceType: models.ResourceFile,
	})
	if err != nil {
		log.Error("failed to list children", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	if err := rs.cache.SetChildren(ctx, parentID, children); err != nil {
		log.Warn("failed to set children to cache", slog.String("error", err.Error()))
	}

	return children, nil
}

func (rs *RecordService) invalidate(ctx context.Context, log *slog.Logger, id string, parentID string) {
	if err := rs.cache.Invalidate(ctx, id, parentID); err != nil {
		log.Error("failed to invalidate cache", slog.String("record_id", id), slog.String("error", err.Error()))
	}
}
