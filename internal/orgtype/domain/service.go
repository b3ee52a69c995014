package domain

import (
	"context"
	"errors"
)

type CreateRequest struct {
	Name  string
	Color string
}

type Service interface {
	List(ctx context.Context) ([]OrganizationType, error)
	Create(ctx context.Context, req CreateRequest) (OrganizationType, error)
	Delete(ctx context.Context, id string) error
	// Exists reports whether a type with the normalized name is defined.
	Exists(ctx context.Context, name string) (bool, error)
}

var (
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidName       = errors.New("invalid_name")
	ErrInvalidColor      = errors.New("invalid_color")
	ErrNotFound          = errors.New("not_found")
	ErrAlreadyExists     = errors.New("org_type_exists")
	ErrDefaultTypeLocked = errors.New("default_type_locked")
)
