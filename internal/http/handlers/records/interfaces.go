package records

import (
	"context"
	"recordaccess/internal/models"
)

const pkg = "recordsHandler/"

type AccessProvider interface {
	RecordAccess(ctx context.Context, id string, viewer models.Viewer) (models.Decision, error)
	FileList(ctx context.Context, workID string, viewer models.Viewer, limit int) (models.FileList, error)
}

type RecordSaver interface {
	SaveRecord(ctx context.Context, rec *models.ContentRecord) error
}

type RecordDeleter interface {
	DeleteRecord(ctx context.Context, id string) error
}

type AdminChecker interface {
	IsAdmin(token string) bool
}
