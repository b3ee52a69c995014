package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/fluxcrm/internal/analytics/repository"
	"github.com/smallbiznis/fluxcrm/internal/config"
	leaddomain "github.com/smallbiznis/fluxcrm/internal/lead/domain"
	leadstagedomain "github.com/smallbiznis/fluxcrm/internal/leadstage/domain"
	organizationdomain "github.com/smallbiznis/fluxcrm/internal/organization/domain"
	orgtypedomain "github.com/smallbiznis/fluxcrm/internal/orgtype/domain"
	"github.com/smallbiznis/fluxcrm/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDashboardAndGeographyFromDatabase(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&organizationdomain.Organization{},
		&orgtypedomain.OrganizationType{},
		&leadstagedomain.LeadStage{},
		&leaddomain.Lead{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	for _, def := range leadstagedomain.Defaults {
		def.ID = node.Generate()
		require.NoError(t, conn.Create(&def).Error)
	}
	for _, def := range orgtypedomain.Defaults {
		def.ID = node.Generate()
		require.NoError(t, conn.Create(&def).Error)
	}

	org := organizationdomain.Organization{ID: node.Generate(), Name: "AIIMS", Type: "GOVT", State: "Delhi", City: "New Delhi"}
	require.NoError(t, conn.Create(&org).Error)

	for i, status := range []string{leaddomain.StatusWon, leaddomain.StatusLost, leaddomain.StatusOpen} {
		lead := leaddomain.Lead{
			ID: node.Generate(), LeadCode: "LEAD-00000" + string(rune('1'+i)), LeadName: "Lead", OrganizationID: org.ID,
			Product: "Scan AI", SalesOwner: "asha", Stage: "DEMO", Status: status, Probability: 40,
			OfferedPrice: 12, AgreedPrice: 10, ExpectedVolume: 10,
		}
		require.NoError(t, conn.Create(&lead).Error)
	}

	svc := New(Params{
		DB:       conn,
		Log:      zap.NewNop(),
		DataLoad: config.NewStaticDataLoadConfigHolder(config.DefaultDataLoadConfig()),
		Repo:     repository.Provide(),
	})

	dash, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), dash.TotalLeads)
	assert.Equal(t, int64(1), dash.TotalOrganizations)
	assert.Equal(t, int64(3), dash.LeadsByStage["DEMO"])
	assert.Equal(t, int64(0), dash.LeadsByStage["PILOT"])
	assert.Equal(t, map[string]int64{"GOVT": 3, "HOSPITAL": 0, "NGO": 0, "CORPORATE": 0}, dash.LeadsByOrgType)
	assert.Equal(t, 50.0, dash.WinRate)
	assert.Equal(t, 12.0, dash.PipelineValue)
	assert.Equal(t, 100.0, dash.MonthlyRevenue)
	assert.Equal(t, 40.0, dash.AvgProbability)

	geo, err := svc.Geography(context.Background())
	require.NoError(t, err)
	for _, state := range geo.States {
		if state.State == "Delhi" {
			assert.Equal(t, int64(1), state.Organizations)
			assert.Equal(t, int64(3), state.Leads)
			assert.Equal(t, 100.0, state.MonthlyRevenue)
		}
	}
	assert.Zero(t, geo.Unmapped.Leads)
}
