package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingRole        = errors.New("integrity error: account has no role")
	ErrUpstream           = errors.New("upstream service unavailable")
)

// NotFoundError 带资源名和 ID 的 404，errors.Is(err, ErrNotFound) 为真
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id: %d", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func NotFound(resource string, id int64) error {
	return &NotFoundError{Resource: resource, ID: id}
}
