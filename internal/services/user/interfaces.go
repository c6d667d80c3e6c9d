package userservice

import (
	"context"
	"recordaccess/internal/models"
)

type UserStore interface {
	AddUser(ctx context.Context, user models.User) error
	UserByLogin(ctx context.Context, login string) (*models.User, error)
}
