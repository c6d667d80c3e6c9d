package userservice

import (
	"context"
	"errors"
	"log/slog"
	"recordaccess/internal/models"
)

const pkg = "userService/"

// UserService translates storage errors into the sentinels the auth layer
// understands.
type UserService struct {
	log   *slog.Logger
	users UserStore
}

func New(log *slog.Logger, users UserStore) *UserService {
	return &UserService{
		log:   log,
		users: users,
	}
}

func (u *UserService) AddUser(ctx context.Context, user models.User) error {
	op := pkg + "AddUser"

	log := u.log.With(slog.String("op", op))

	err := u.users.AddUser(ctx, user)
	if err == nil {
		log.Debug("user added", slog.String("login", user.Login))
		return nil
	}

	var uce *models.UniqueConstraintError
	if errors.As(err, &uce) {
		log.Warn("user already exists", slog.String("constraint", uce.Constraint))
		return models.ErrUserExists
	}

	log.Error("failed to add user", slog.String("error", err.Error()))
	return models.ErrFailedToAddUser
}

func (u *UserService) UserByLogin(ctx context.Context, login string) (*models.User, error) {
	op := pkg + "UserByLogin"

	log := u.log.With(slog.String("op", op))

	user, err := u.users.UserByLogin(ctx, login)
	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, models.ErrUserNotFound):
		log.Debug("user not found", slog.String("login", login))
		return nil, models.ErrUserNotFound
	default:
		log.Error("failed to get user", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}
}
