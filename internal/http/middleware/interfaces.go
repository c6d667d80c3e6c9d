package middleware

import (
	"context"
	"recordaccess/internal/models"
)

const pkg = "middleware/"

type ViewerResolver interface {
	ViewerByToken(ctx context.Context, token string) models.Viewer
}
