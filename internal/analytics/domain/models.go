// Package domain declares the read models served by the analytics endpoints.
package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// UnassignedType buckets leads whose organization no longer resolves.
const UnassignedType = "UNASSIGNED"

type Dashboard struct {
	TotalLeads         int64            `json:"total_leads"`
	TotalOrganizations int64            `json:"total_organizations"`
	LeadsByStage       map[string]int64 `json:"leads_by_stage"`
	LeadsByStatus      map[string]int64 `json:"leads_by_status"`
	LeadsByOrgType     map[string]int64 `json:"leads_by_org_type"`
	PipelineValue      float64          `json:"pipeline_value"`
	WonValue           float64          `json:"won_value"`
	WinRate            float64          `json:"win_rate"`
	AvgProbability     float64          `json:"avg_probability"`
	MonthlyRevenue     float64          `json:"monthly_revenue"`
	AnnualRevenue      float64          `json:"annual_revenue"`
	DailyDataLoadGB    float64          `json:"daily_data_load_gb"`
	MonthlyDataLoadGB  float64          `json:"monthly_data_load_gb"`
}

type StateSummary struct {
	State          string  `json:"state"`
	Organizations  int64   `json:"organizations"`
	Leads          int64   `json:"leads"`
	MonthlyRevenue float64 `json:"monthly_revenue"`
}

// Geography lists every known state plus the totals for organizations
// whose state is not on the list.
type Geography struct {
	States   []StateSummary `json:"states"`
	Unmapped StateSummary   `json:"unmapped"`
}

// LeadRow is a lead joined with its organization's type and state.
type LeadRow struct {
	ID             snowflake.ID `gorm:"column:id"`
	OrganizationID snowflake.ID `gorm:"column:organization_id"`
	Stage          string       `gorm:"column:stage"`
	Status         string       `gorm:"column:status"`
	OfferedPrice   float64      `gorm:"column:offered_price"`
	AgreedPrice    float64      `gorm:"column:agreed_price"`
	ExpectedVolume int64        `gorm:"column:expected_volume"`
	Probability    int          `gorm:"column:probability"`
	OrgType        *string      `gorm:"column:org_type"`
	OrgState       *string      `gorm:"column:org_state"`
}

type OrganizationRow struct {
	ID    snowflake.ID `gorm:"column:id"`
	Type  string       `gorm:"column:type"`
	State string       `gorm:"column:state"`
}

type Repository interface {
	ListLeads(ctx context.Context, db *gorm.DB) ([]LeadRow, error)
	ListOrganizations(ctx context.Context, db *gorm.DB) ([]OrganizationRow, error)
	ListStageNames(ctx context.Context, db *gorm.DB) ([]string, error)
	ListOrgTypeNames(ctx context.Context, db *gorm.DB) ([]string, error)
}

type Service interface {
	Dashboard(ctx context.Context) (Dashboard, error)
	Geography(ctx context.Context) (Geography, error)
}
