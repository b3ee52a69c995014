package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Step is one entry of the sales playbook for an organization type.
type Step struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	PlayerType  string       `gorm:"type:varchar(64);not null;uniqueIndex:ux_sales_flow_step,priority:1" json:"player_type"`
	StepNumber  int          `gorm:"not null;uniqueIndex:ux_sales_flow_step,priority:2" json:"step_number"`
	Description string       `gorm:"type:text;not null" json:"description"`
	Owner       string       `gorm:"type:text" json:"owner"`
	Output      string       `gorm:"type:text" json:"output"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Step) TableName() string { return "sales_flow_steps" }

type CreateRequest struct {
	PlayerType  string
	StepNumber  int
	Description string
	Owner       string
	Output      string
}

// UpdateRequest is a patch; nil fields are left unchanged.
type UpdateRequest struct {
	PlayerType  *string
	StepNumber  *int
	Description *string
	Owner       *string
	Output      *string
}

type Service interface {
	List(ctx context.Context, playerType string) ([]Step, error)
	Create(ctx context.Context, req CreateRequest) (Step, error)
	Update(ctx context.Context, id string, req UpdateRequest) (Step, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidPlayerType  = errors.New("invalid_player_type")
	ErrInvalidStepNumber  = errors.New("invalid_step_number")
	ErrInvalidDescription = errors.New("invalid_description")
	ErrEmptyUpdate        = errors.New("empty_update")
	ErrNotFound           = errors.New("not_found")
	ErrDuplicateStep      = errors.New("duplicate_step")
)
