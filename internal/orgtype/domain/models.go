package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const DefaultColor = "#6b7280"

// OrganizationType is an entry in the open set of organization categories.
type OrganizationType struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"type:varchar(64);not null;uniqueIndex" json:"name"`
	Color     string       `gorm:"type:varchar(16);not null" json:"color"`
	IsDefault bool         `gorm:"not null;default:false" json:"is_default"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (OrganizationType) TableName() string { return "organization_types" }

// Defaults are seeded on first run and cannot be deleted.
var Defaults = []OrganizationType{
	{Name: "HOSPITAL", Color: "#3b82f6", IsDefault: true},
	{Name: "NGO", Color: "#22c55e", IsDefault: true},
	{Name: "GOVT", Color: "#f59e0b", IsDefault: true},
	{Name: "CORPORATE", Color: "#8b5cf6", IsDefault: true},
}
