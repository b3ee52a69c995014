package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const DefaultColor = "#6b7280"

// LeadStage is a pipeline position. Lower Order comes first.
type LeadStage struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"type:varchar(64);not null;uniqueIndex" json:"name"`
	Order     int          `gorm:"column:sort_order;not null;default:0" json:"order"`
	Color     string       `gorm:"type:varchar(16);not null" json:"color"`
	IsDefault bool         `gorm:"not null;default:false" json:"is_default"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (LeadStage) TableName() string { return "lead_stages" }

var Defaults = []LeadStage{
	{Name: "IDENTIFIED", Order: 1, Color: "#94a3b8", IsDefault: true},
	{Name: "QUALIFIED", Order: 2, Color: "#3b82f6", IsDefault: true},
	{Name: "DEMO", Order: 3, Color: "#8b5cf6", IsDefault: true},
	{Name: "PILOT", Order: 4, Color: "#f59e0b", IsDefault: true},
	{Name: "COMMERCIAL", Order: 5, Color: "#22c55e", IsDefault: true},
	{Name: "CLOSED", Order: 6, Color: "#64748b", IsDefault: true},
}
