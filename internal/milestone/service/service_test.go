package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/fluxcrm/internal/clock"
	leaddomain "github.com/smallbiznis/fluxcrm/internal/lead/domain"
	leadrepo "github.com/smallbiznis/fluxcrm/internal/lead/repository"
	"github.com/smallbiznis/fluxcrm/internal/milestone/domain"
	"github.com/smallbiznis/fluxcrm/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (domain.Service, snowflake.ID, *snowflake.Node) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&leaddomain.Lead{}, &domain.Milestone{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	lead := leaddomain.Lead{
		ID: node.Generate(), LeadCode: "LEAD-000001", LeadName: "Pilot", OrganizationID: node.Generate(),
		Product: "Scan AI", SalesOwner: "asha", Stage: "PILOT", Status: leaddomain.StatusOpen, Probability: 10,
	}
	require.NoError(t, conn.Create(&lead).Error)

	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
		Leads: leadrepo.Provide(),
	})
	return svc, lead.ID, node
}

func ptr[T any](v T) *T { return &v }

func TestCreateMilestone(t *testing.T) {
	svc, leadID, node := newTestService(t)
	ctx := context.Background()

	milestone, err := svc.Create(ctx, domain.CreateRequest{
		LeadID: leadID.String(), Name: "Kickoff", StartDate: "2025-01-10", EndDate: "2025-01-20",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, milestone.Status)
	require.NotNil(t, milestone.StartDate)
	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), time.Time(*milestone.StartDate))

	_, err = svc.Create(ctx, domain.CreateRequest{LeadID: node.Generate().String(), Name: "Ghost"})
	assert.ErrorIs(t, err, domain.ErrLeadNotFound)

	_, err = svc.Create(ctx, domain.CreateRequest{LeadID: leadID.String(), Name: "Bad", Status: "DONE"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = svc.Create(ctx, domain.CreateRequest{LeadID: leadID.String(), Name: "Backwards", StartDate: "2025-02-01", EndDate: "2025-01-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	_, err = svc.Create(ctx, domain.CreateRequest{LeadID: leadID.String()})
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestUpdateAndListMilestones(t *testing.T) {
	svc, leadID, _ := newTestService(t)
	ctx := context.Background()

	milestone, err := svc.Create(ctx, domain.CreateRequest{LeadID: leadID.String(), Name: "Kickoff", StartDate: "2025-01-10"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, milestone.ID.String(), domain.UpdateRequest{Status: ptr("in_progress")})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, updated.Status)
	assert.Equal(t, "Kickoff", updated.Name)

	_, err = svc.Update(ctx, milestone.ID.String(), domain.UpdateRequest{EndDate: ptr("2025-01-01")})
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	_, err = svc.Update(ctx, milestone.ID.String(), domain.UpdateRequest{})
	assert.ErrorIs(t, err, domain.ErrEmptyUpdate)

	items, err := svc.ListByLead(ctx, leadID.String())
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.NoError(t, svc.Delete(ctx, milestone.ID.String()))
	assert.ErrorIs(t, svc.Delete(ctx, milestone.ID.String()), domain.ErrNotFound)
}
