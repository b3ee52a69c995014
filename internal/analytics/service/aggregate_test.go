package service

import (
	"testing"

	"github.com/smallbiznis/fluxcrm/internal/analytics/domain"
	"github.com/smallbiznis/fluxcrm/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func TestWinRate(t *testing.T) {
	assert.Equal(t, 0.0, WinRate(0, 0))
	assert.Equal(t, 100.0, WinRate(3, 0))
	assert.Equal(t, 0.0, WinRate(0, 4))
	assert.Equal(t, 66.7, WinRate(2, 1))
	assert.Equal(t, 33.3, WinRate(1, 2))
}

func TestBuildDashboard(t *testing.T) {
	cfg := config.DefaultDataLoadConfig()
	leads := []domain.LeadRow{
		{Stage: "IDENTIFIED", Status: "OPEN", OfferedPrice: 100, Probability: 10, OrgType: str("HOSPITAL")},
		{Stage: "DEMO", Status: "OPEN", OfferedPrice: 250.5, Probability: 25, OrgType: str("NGO")},
		{Stage: "CLOSED", Status: "WON", AgreedPrice: 20, ExpectedVolume: 100, OrgType: str("HOSPITAL")},
		{Stage: "CLOSED", Status: "LOST", OfferedPrice: 999, AgreedPrice: 999, ExpectedVolume: 5},
	}
	stages := []string{"IDENTIFIED", "QUALIFIED", "DEMO", "PILOT", "COMMERCIAL", "CLOSED"}

	orgTypes := []string{"HOSPITAL", "NGO", "GOVT", "CORPORATE"}

	dash := BuildDashboard(leads, 3, stages, orgTypes, cfg)

	assert.Equal(t, int64(4), dash.TotalLeads)
	assert.Equal(t, int64(3), dash.TotalOrganizations)
	assert.Equal(t, int64(0), dash.LeadsByStage["QUALIFIED"])
	assert.Equal(t, int64(2), dash.LeadsByStage["CLOSED"])
	assert.Equal(t, map[string]int64{"OPEN": 2, "WON": 1, "LOST": 1}, dash.LeadsByStatus)
	assert.Equal(t, map[string]int64{
		"HOSPITAL": 2, "NGO": 1, "GOVT": 0, "CORPORATE": 0, domain.UnassignedType: 1,
	}, dash.LeadsByOrgType)
	assert.Equal(t, 350.5, dash.PipelineValue)
	assert.Equal(t, 20.0, dash.WonValue)
	assert.Equal(t, 50.0, dash.WinRate)
	assert.Equal(t, 17.5, dash.AvgProbability)
	assert.Equal(t, 2000.0, dash.MonthlyRevenue)
	assert.Equal(t, 24000.0, dash.AnnualRevenue)
	assert.Equal(t, 1.46, dash.DailyDataLoadGB)
	assert.Equal(t, 43.95, dash.MonthlyDataLoadGB)
}

func TestBuildDashboardEmpty(t *testing.T) {
	dash := BuildDashboard(nil, 0, nil, nil, config.DefaultDataLoadConfig())
	assert.Zero(t, dash.TotalLeads)
	assert.Zero(t, dash.WinRate)
	assert.Zero(t, dash.AvgProbability)
	assert.Len(t, dash.LeadsByStatus, 3)
}

func TestBuildGeography(t *testing.T) {
	cfg := config.DefaultDataLoadConfig()
	orgs := []domain.OrganizationRow{
		{ID: 1, State: "Kerala"},
		{ID: 2, State: "kerala"},
		{ID: 3, State: "Narnia"},
	}
	leads := []domain.LeadRow{
		{OrganizationID: 1, Status: "WON", AgreedPrice: 10, ExpectedVolume: 50, OrgState: str("Kerala")},
		{OrganizationID: 2, Status: "OPEN", AgreedPrice: 10, ExpectedVolume: 50, OrgState: str("kerala")},
		{OrganizationID: 3, Status: "WON", AgreedPrice: 1, ExpectedVolume: 5, OrgState: str("Narnia")},
		{OrganizationID: 9, Status: "OPEN"},
	}

	geo := BuildGeography(orgs, leads, cfg)
	require.Len(t, geo.States, 36)
	assert.Equal(t, "Andaman and Nicobar Islands", geo.States[0].State)

	var kerala domain.StateSummary
	for _, s := range geo.States {
		if s.State == "Kerala" {
			kerala = s
		}
	}
	assert.Equal(t, int64(2), kerala.Organizations)
	assert.Equal(t, int64(2), kerala.Leads)
	assert.Equal(t, 500.0, kerala.MonthlyRevenue)

	assert.Equal(t, int64(1), geo.Unmapped.Organizations)
	assert.Equal(t, int64(2), geo.Unmapped.Leads)
	assert.Equal(t, 5.0, geo.Unmapped.MonthlyRevenue)
}
