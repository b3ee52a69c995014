package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	StatusPending    = "PENDING"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
)

type Milestone struct {
	ID        snowflake.ID    `gorm:"primaryKey" json:"id"`
	LeadID    snowflake.ID    `gorm:"not null;index" json:"lead_id"`
	Name      string          `gorm:"type:text;not null" json:"name"`
	StartDate *datatypes.Date `json:"start_date,omitempty"`
	EndDate   *datatypes.Date `json:"end_date,omitempty"`
	Status    string          `gorm:"type:varchar(16);not null" json:"status"`
	CreatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Milestone) TableName() string { return "milestones" }

type CreateRequest struct {
	LeadID    string
	Name      string
	StartDate string
	EndDate   string
	Status    string
}

// UpdateRequest is a patch; nil fields are left unchanged. An empty date
// string clears the date.
type UpdateRequest struct {
	Name      *string
	StartDate *string
	EndDate   *string
	Status    *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (Milestone, error)
	ListByLead(ctx context.Context, leadID string) ([]Milestone, error)
	Update(ctx context.Context, id string, req UpdateRequest) (Milestone, error)
	Delete(ctx context.Context, id string) error
}

func IsValidStatus(status string) bool {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

var (
	ErrInvalidID     = errors.New("invalid_id")
	ErrInvalidLeadID = errors.New("invalid_lead_id")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidStatus = errors.New("invalid_status")
	ErrInvalidDate   = errors.New("invalid_date")
	ErrInvalidRange  = errors.New("invalid_date_range")
	ErrEmptyUpdate   = errors.New("empty_update")
	ErrNotFound      = errors.New("not_found")
	ErrLeadNotFound  = errors.New("lead_not_found")
)
