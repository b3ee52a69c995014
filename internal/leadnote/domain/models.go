package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	UpdateTypeGeneral = "GENERAL"
	UpdateTypeDaily   = "DAILY"
	UpdateTypeWeekly  = "WEEKLY"
	UpdateTypeCall    = "CALL"
	UpdateTypeMeeting = "MEETING"
	UpdateTypeEmail   = "EMAIL"
)

// LeadNote is an append-only activity entry on a lead.
type LeadNote struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	LeadID      snowflake.ID `gorm:"not null;index" json:"lead_id"`
	Content     string       `gorm:"type:text;not null" json:"content"`
	UpdateType  string       `gorm:"type:varchar(16);not null" json:"update_type"`
	CreatedBy   string       `gorm:"type:text;not null" json:"created_by"`
	CreatedByID snowflake.ID `gorm:"index" json:"created_by_id"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

func (LeadNote) TableName() string { return "lead_notes" }

type CreateRequest struct {
	LeadID     string
	Content    string
	UpdateType string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (LeadNote, error)
	ListByLead(ctx context.Context, leadID string) ([]LeadNote, error)
	Delete(ctx context.Context, id string) error
}

func IsValidUpdateType(t string) bool {
	switch strings.ToUpper(strings.TrimSpace(t)) {
	case UpdateTypeGeneral, UpdateTypeDaily, UpdateTypeWeekly, UpdateTypeCall, UpdateTypeMeeting, UpdateTypeEmail:
		return true
	default:
		return false
	}
}

var (
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidLeadID     = errors.New("invalid_lead_id")
	ErrInvalidContent    = errors.New("invalid_content")
	ErrInvalidUpdateType = errors.New("invalid_update_type")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrNotFound          = errors.New("not_found")
	ErrLeadNotFound      = errors.New("lead_not_found")
)
