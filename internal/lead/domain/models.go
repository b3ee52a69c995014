// Package domain contains the lead model and its derived read fields.
package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	StatusOpen = "OPEN"
	StatusWon  = "WON"
	StatusLost = "LOST"

	DefaultProbability = 10

	// SequenceName keys the lead-code row in lead_sequences.
	SequenceName = "lead"
)

// Lead is a sales opportunity tied to one organization.
type Lead struct {
	ID                snowflake.ID                `gorm:"primaryKey" json:"id"`
	LeadCode          string                      `gorm:"type:varchar(32);not null;uniqueIndex" json:"lead_code"`
	LeadName          string                      `gorm:"type:text;not null" json:"lead_name"`
	OrganizationID    snowflake.ID                `gorm:"not null;index" json:"organization_id"`
	Product           string                      `gorm:"type:text;not null" json:"product"`
	SalesOwner        string                      `gorm:"type:varchar(128);not null;index" json:"sales_owner"`
	OfferedPrice      float64                     `gorm:"not null;default:0" json:"offered_price"`
	AgreedPrice       float64                     `gorm:"not null;default:0" json:"agreed_price"`
	ExpectedVolume    int64                       `gorm:"not null;default:0" json:"expected_volume"`
	Stage             string                      `gorm:"type:varchar(64);not null;index" json:"stage"`
	Status            string                      `gorm:"type:varchar(16);not null;index" json:"status"`
	Probability       int                         `gorm:"not null" json:"probability"`
	ExpectedCloseDate *datatypes.Date             `json:"expected_close_date,omitempty"`
	Source            string                      `gorm:"type:text" json:"source"`
	Remarks           string                      `gorm:"type:text" json:"remarks"`
	Tags              datatypes.JSONSlice[string] `json:"tags"`
	CreatedAt         time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt         time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Lead) TableName() string { return "leads" }

// LeadSequence holds the last issued number for a named code series.
type LeadSequence struct {
	Name       string    `gorm:"type:varchar(32);primaryKey" json:"name"`
	LastNumber int64     `gorm:"not null;default:0" json:"last_number"`
	UpdatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (LeadSequence) TableName() string { return "lead_sequences" }

// OrganizationRef is the slice of an organization a lead response carries.
type OrganizationRef struct {
	ID   snowflake.ID
	Name string
	Type string
}

// LeadResponse is a lead enriched with its organization and derived fields.
type LeadResponse struct {
	Lead
	OrganizationName string `json:"organization_name"`
	OrganizationType string `json:"organization_type"`
	Derived
}

func IsValidStatus(status string) bool {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case StatusOpen, StatusWon, StatusLost:
		return true
	default:
		return false
	}
}
