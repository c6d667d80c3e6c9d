package authservice

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"recordaccess/internal/models"
	"recordaccess/internal/validator"

	uuid "github.com/satori/go.uuid"
	"golang.org/x/crypto/bcrypt"
)

const pkg = "authService/"

type AuthService struct {
	log           *slog.Logger
	userAdder     UserAdder
	userProvider  UserProvider
	sessionStorer SessionStorer
	adminToken    string
}

// sessionUser is what a session token resolves to. The password hash never
// leaves the database.
type sessionUser struct {
	ID    string `json:"id"`
	Login string `json:"login"`
}

func New(
	log *slog.Logger,
	userAdder UserAdder,
	userProvider UserProvider,
	sessionStorer SessionStorer,
	adminToken string,
) *AuthService {
	return &AuthService{
		log:           log,
		userAdder:     userAdder,
		userProvider:  userProvider,
		sessionStorer: sessionStorer,
		adminToken:    adminToken,
	}
}

// IsAdmin compares in constant time. An unset admin token matches nothing.
func (a *AuthService) IsAdmin(token string) bool {
	if a.adminToken == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(a.adminToken)) == 1
}

func (a *AuthService) Register(ctx context.Context, login string, password string, token string) (string, error) {
	op := pkg + "Register"

	log := a.log.With(slog.String("op", op))

	log.Debug("attempting to register user")

	if !a.IsAdmin(token) {
		log.Warn("invalid admin token")
		return "", models.ErrForbidden
	}

	if !validator.IsValidLogin(login) || !validator.IsValidPassword(password) {
		log.Warn("invalid login or password format")
		return "", models.ErrInvalidParams
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", slog.String("error", err.Error()))
		return "", models.ErrInternal
	}

	user := models.User{
		ID:       uuid.NewV4().String(),
		Login:    login,
		PassHash: passHash,
	}

	if err := a.userAdder.AddUser(ctx, user); err != nil {
		if errors.Is(err, models.ErrUserExists) {
			log.Warn("user already exists", slog.String("login", user.Login))
			return "", models.ErrUserExists
		}

		log.Error("failed to add user", slog.String("error", err.Error()))
		return "", models.ErrInternal
	}

	log.Debug("user registered", slog.String("login", user.Login))

	return user.Login, nil
}

// Login opens a session and returns its token. Unknown logins and wrong
// passwords are indistinguishable to the caller.
func (a *AuthService) Login(ctx context.Context, login string, password string) (string, error) {
	op := pkg + "Login"

	log := a.log.With(slog.String("op", op))

	log.Debug("attempting to login user")

	user, err := a.userProvider.UserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			log.Info("unknown login")
			return "", fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
		}

		log.Error("failed to get user", slog.String("error", err.Error()))
		return "", fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		log.Info("wrong password", slog.String("login", login))
		return "", fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}

	payload, err := json.Marshal(sessionUser{ID: user.ID, Login: user.Login})
	if err != nil {
		log.Error("failed to marshal session", slog.String("error", err.Error()))
		return "", fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	token := uuid.NewV4().String()

	if err := a.sessionStorer.SaveSession(ctx, token, string(payload)); err != nil {
		log.Error("failed to store session", slog.String("error", err.Error()))
		return "", fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("session opened", slog.String("login", user.Login))

	return token, nil
}

func (a *AuthService) UserByToken(ctx context.Context, token string) (*models.User, error) {
	op := pkg + "UserByToken"

	log := a.log.With(slog.String("op", op))

	payload, err := a.sessionStorer.UserByToken(ctx, token)
	if err != nil {
		if errors.Is(err, models.ErrSessionNotFound) {
			log.Debug("session not found")
			return nil, models.ErrInvalidCredentials
		}
		log.Error("failed to get session", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	var su sessionUser
	if err := json.Unmarshal([]byte(payload), &su); err != nil || su.Login == "" {
		log.Error("corrupt session payload")
		return nil, models.ErrInternal
	}

	return &models.User{ID: su.ID, Login: su.Login}, nil
}

// ViewerByToken never fails: an empty, expired or unreadable token yields
// the anonymous viewer.
func (a *AuthService) ViewerByToken(ctx context.Context, token string) models.Viewer {
	op := pkg + "ViewerByToken"

	if token == "" {
		return models.AnonymousViewer()
	}

	user, err := a.UserByToken(ctx, token)
	if err != nil {
		if !errors.Is(err, models.ErrInvalidCredentials) {
			a.log.Warn("falling back to anonymous viewer", slog.String("op", op), slog.String("error", err.Error()))
		}
		return models.AnonymousViewer()
	}

	return models.ViewerFor(user)
}

func (a *AuthService) Logout(ctx context.Context, token string) error {
	op := pkg + "Logout"

	log := a.log.With(slog.String("op", op))

	log.Debug("attempting to logout user")

	if err := a.sessionStorer.DeleteSession(ctx, token); err != nil {
		if errors.Is(err, models.ErrSessionNotFound) {
			log.Warn("session not found")
			return models.ErrSessionNotFound
		}
		log.Error("failed to delete session", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("session closed")

	return nil
}
