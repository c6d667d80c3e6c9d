package models

import (
	"errors"
	"fmt"
)

var (
	ErrUNIQUEConstraintFailed = errors.New("unique constraint failed")
	ErrFailedToAddUser        = errors.New("failed to add user")
	ErrInternal               = errors.New("internal server error")
	ErrMethodNotAllowed       = errors.New("method not allowed")
	ErrForbidden              = errors.New("access denied")
	ErrInvalidParams          = errors.New("invalid params")
	ErrUserNotFound           = errors.New("user not found")
	ErrUserExists             = errors.New("user already exists")
	ErrRecordNotFound         = errors.New("record not found")
	ErrSessionNotFound        = errors.New("sessions not found")
	ErrInvalidCredentials     = errors.New("invalid credentials")
)

type UniqueConstraintError struct {
	Constraint string
	Err        error
}

func (e *UniqueConstraintError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Constraint)
}

func (e *UniqueConstraintError) Unwrap() error {
	return e.Err
}
