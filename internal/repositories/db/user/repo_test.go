package userrepo

import (
	"context"
	"database/sql"
	"errors"
	"recordaccess/internal/models"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(sqlx.NewDb(db, "postgres")), mock
}

func TestAddUser(t *testing.T) {
	t.Parallel()

	user := models.User{ID: "1", Login: "useruser1", PassHash: []byte("hashed")}

	tests := []struct {
		name    string
		execErr error
		check   func(t *testing.T, err error)
	}{
		{
			name: "inserted",
			check: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:    "unique violation",
			execErr: &pq.Error{Code: "23505", Constraint: "users_login_key"},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, models.ErrUNIQUEConstraintFailed)

				var uce *models.UniqueConstraintError
				require.ErrorAs(t, err, &uce)
				assert.Equal(t, "users_login_key", uce.Constraint)
			},
		},
		{
			name:    "other pq error",
			execErr: &pq.Error{Code: "08006"},
			check: func(t *testing.T, err error) {
				assert.NotErrorIs(t, err, models.ErrUNIQUEConstraintFailed)
				assert.ErrorContains(t, err, "AddUser")
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo, mock := newRepo(t)

			exec := mock.ExpectExec("INSERT INTO users").WithArgs(user.ID, user.Login, user.PassHash)
			if tt.execErr != nil {
				exec.WillReturnError(tt.execErr)
			} else {
				exec.WillReturnResult(sqlmock.NewResult(1, 1))
			}

			tt.check(t, repo.AddUser(context.Background(), user))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserByLogin_Success(t *testing.T) {
	t.Parallel()

	repo, mock := newRepo(t)

	rows := sqlmock.NewRows([]string{"id", "login", "pass_hash"}).
		AddRow("1", "useruser1", []byte("hashed"))

	mock.ExpectQuery("SELECT(.|\n)*FROM users u WHERE u.login").
		WithArgs("useruser1").
		WillReturnRows(rows)

	user, err := repo.UserByLogin(context.Background(), "useruser1")
	require.NoError(t, err)
	assert.Equal(t, &models.User{ID: "1", Login: "useruser1", PassHash: []byte("hashed")}, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserByLogin_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		queryErr error
		wantErr  error
	}{
		{"not found", sql.ErrNoRows, models.ErrUserNotFound},
		{"connection lost", errors.New("conn reset"), nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo, mock := newRepo(t)

			mock.ExpectQuery("SELECT(.|\n)*FROM users u WHERE u.login").
				WithArgs("ghost").
				WillReturnError(tt.queryErr)

			user, err := repo.UserByLogin(context.Background(), "ghost")
			assert.Nil(t, user)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.ErrorContains(t, err, "conn reset")
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
