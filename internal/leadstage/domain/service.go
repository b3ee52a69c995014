package domain

import (
	"context"
	"errors"
)

type CreateRequest struct {
	Name  string
	Order *int
	Color string
}

type Service interface {
	List(ctx context.Context) ([]LeadStage, error)
	Create(ctx context.Context, req CreateRequest) (LeadStage, error)
	Delete(ctx context.Context, id string) error
	// First returns the stage with the lowest order.
	First(ctx context.Context) (LeadStage, error)
	Exists(ctx context.Context, name string) (bool, error)
}

var (
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidOrder       = errors.New("invalid_order")
	ErrInvalidColor       = errors.New("invalid_color")
	ErrNotFound           = errors.New("not_found")
	ErrNoStages           = errors.New("no_stages_defined")
	ErrAlreadyExists      = errors.New("lead_stage_exists")
	ErrDefaultStageLocked = errors.New("default_stage_locked")
)
