// Package domain contains persistence models for the organization service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Organization is a customer account that leads are tracked against.
type Organization struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name      string            `gorm:"type:text;not null" json:"name"`
	Type      string            `gorm:"type:varchar(64);not null;index" json:"type"`
	State     string            `gorm:"type:varchar(128);not null;index" json:"state"`
	City      string            `gorm:"type:varchar(128);not null" json:"city"`
	Metadata  datatypes.JSONMap `json:"metadata"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Organization) TableName() string { return "organizations" }

// OrganizationResponse adds the number of leads that reference the organization.
type OrganizationResponse struct {
	Organization
	LeadCount int64 `json:"lead_count"`
}
