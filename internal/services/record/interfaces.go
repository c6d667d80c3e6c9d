package recordservice

import (
	"context"
	"recordaccess/internal/models"
)

type RecordRepository interface {
	SaveRecord(ctx context.Context, rec *models.ContentRecord) error
	RecordByID(ctx context.Context, id string) (*models.ContentRecord, error)
	FilteredRecords(ctx context.Context, filter models.RecordFilter) ([]*models.ContentRecord, error)
	Delete(ctx context.Context, id string) error
}

// RecordCache returns nil results without error on a miss.
type RecordCache interface {
	Record(ctx context.Context, id string) (*models.ContentRecord, error)
	SetRecord(ctx context.Context, rec *models.ContentRecord) error
	Children(ctx context.Context, parentID string) ([]*models.ContentRecord, error)
	SetChildren(ctx context.Context, parentID string, records []*models.ContentRecord) error
	Invalidate(ctx context.Context, id string, parentID string) error
}

type Evaluator interface {
	Evaluate(record *models.ContentRecord, viewer models.Viewer) models.Decision
	EmbargoStatus(record *models.ContentRecord) models.Embargo
	ViewOriginalAffordanceVisible(record *models.ContentRecord, viewer models.Viewer) bool
	DownloadOptions(record *models.ContentRecord, viewer models.Viewer) []models.DownloadOption
	Badges(record *models.ContentRecord) models.Badges
}
