// Package domain declares the admin-only team management contract.
package domain

import (
	"context"
	"errors"

	authdomain "github.com/smallbiznis/fluxcrm/internal/auth/domain"
)

type Member = authdomain.User

type InviteRequest struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// UpdateRequest is a patch; nil fields are left unchanged.
type UpdateRequest struct {
	Name     *string
	Role     *string
	IsActive *bool
}

type Service interface {
	List(ctx context.Context) ([]Member, error)
	Invite(ctx context.Context, req InviteRequest) (Member, error)
	Update(ctx context.Context, id string, req UpdateRequest) (Member, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidID        = errors.New("invalid_id")
	ErrNotFound         = errors.New("not_found")
	ErrEmptyUpdate      = errors.New("empty_update")
	ErrSelfModification = errors.New("self_modification")
	ErrUnauthenticated  = errors.New("unauthenticated")
)
