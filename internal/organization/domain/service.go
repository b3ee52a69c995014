package domain

import (
	"context"
	"errors"
)

type CreateOrganizationRequest struct {
	Name     string
	Type     string
	State    string
	City     string
	Metadata map[string]any
}

// UpdateOrganizationRequest is a patch; nil fields are left unchanged.
type UpdateOrganizationRequest struct {
	Name     *string
	Type     *string
	State    *string
	City     *string
	Metadata map[string]any
}

type ListOrganizationRequest struct {
	Type  string
	State string
}

type Service interface {
	Create(ctx context.Context, req CreateOrganizationRequest) (*OrganizationResponse, error)
	List(ctx context.Context, req ListOrganizationRequest) ([]OrganizationResponse, error)
	GetByID(ctx context.Context, id string) (*OrganizationResponse, error)
	Update(ctx context.Context, id string, req UpdateOrganizationRequest) (*OrganizationResponse, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidID    = errors.New("invalid_id")
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidType  = errors.New("invalid_type")
	ErrInvalidState = errors.New("invalid_state")
	ErrInvalidCity  = errors.New("invalid_city")
	ErrEmptyUpdate  = errors.New("empty_update")
	ErrNotFound     = errors.New("not_found")
	ErrHasLeads     = errors.New("organization_has_leads")
)
