package server

import (
	"context"
	"recordaccess/internal/models"
)

type AuthService interface {
	Register(ctx context.Context, login string, password string, token string) (string, error)
	Login(ctx context.Context, login string, password string) (string, error)
	Logout(ctx context.Context, token string) error
	ViewerByToken(ctx context.Context, token string) models.Viewer
	IsAdmin(token string) bool
}

type RecordService interface {
	SaveRecord(ctx context.Context, rec *models.ContentRecord) error
	DeleteRecord(ctx context.Context, id string) error
	RecordAccess(ctx context.Context, id string, viewer models.Viewer) (models.Decision, error)
	FileList(ctx context.Context, workID string, viewer models.Viewer, limit int) (models.FileList, error)
}
