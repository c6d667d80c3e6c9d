package userrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"recordaccess/internal/entities"
	"recordaccess/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const pkg = "userRepo/"

const pqUniqueViolation = "23505"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) AddUser(ctx context.Context, user models.User) error {
	op := pkg + "AddUser"

	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO users (id, login, pass_hash) VALUES (:id, :login, :pass_hash)`,
		entities.User{ID: user.ID, Login: user.Login, PassHash: user.PassHash})
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == pqUniqueViolation {
			return &models.UniqueConstraintError{
				Constraint: pgErr.Constraint,
				Err:        models.ErrUNIQUEConstraintFailed,
			}
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) UserByLogin(ctx context.Context, login string) (*models.User, error) {
	op := pkg + "UserByLogin"

	var raw entities.User

	err := r.db.GetContext(ctx, &raw,
		`SELECT
			u.id AS id,
			u.login AS login,
			u.pass_hash AS pass_hash
		FROM users u
		WHERE u.login = $1`, login)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.User{
		ID:       raw.ID,
		Login:    raw.Login,
		PassHash: raw.PassHash,
	}, nil
}
