package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/fluxcrm/internal/clock"
	orgtypedomain "github.com/smallbiznis/fluxcrm/internal/orgtype/domain"
	orgtypeservice "github.com/smallbiznis/fluxcrm/internal/orgtype/service"
	"github.com/smallbiznis/fluxcrm/internal/salesflow/domain"
	"github.com/smallbiznis/fluxcrm/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&orgtypedomain.OrganizationType{}, &domain.Step{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	for _, def := range orgtypedomain.Defaults {
		def.ID = node.Generate()
		require.NoError(t, conn.Create(&def).Error)
	}

	return New(Params{
		DB:       conn,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    clock.NewFakeClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
		OrgTypes: orgtypeservice.New(orgtypeservice.Params{DB: conn, Log: zap.NewNop(), GenID: node}),
	})
}

func ptr[T any](v T) *T { return &v }

func TestCreateAndListSorted(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, req := range []domain.CreateRequest{
		{PlayerType: "ngo", StepNumber: 2, Description: "Proposal"},
		{PlayerType: "hospital", StepNumber: 2, Description: "Demo"},
		{PlayerType: "HOSPITAL", StepNumber: 1, Description: "Intro call", Owner: "Sales"},
		{PlayerType: "NGO", StepNumber: 1, Description: "Needs assessment"},
	} {
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	steps, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, steps, 4)
	got := make([]string, 0, len(steps))
	for _, step := range steps {
		got = append(got, step.PlayerType+"/"+step.Description)
	}
	assert.Equal(t, []string{"HOSPITAL/Intro call", "HOSPITAL/Demo", "NGO/Needs assessment", "NGO/Proposal"}, got)

	hospital, err := svc.List(ctx, "hospital")
	require.NoError(t, err)
	assert.Len(t, hospital, 2)
}

func TestCreateStepValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{PlayerType: "SPACE", StepNumber: 1, Description: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidPlayerType)

	_, err = svc.Create(ctx, domain.CreateRequest{PlayerType: "GOVT", StepNumber: 0, Description: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidStepNumber)

	_, err = svc.Create(ctx, domain.CreateRequest{PlayerType: "GOVT", StepNumber: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidDescription)

	_, err = svc.Create(ctx, domain.CreateRequest{PlayerType: "GOVT", StepNumber: 1, Description: "Tender"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateRequest{PlayerType: "govt", StepNumber: 1, Description: "Again"})
	assert.ErrorIs(t, err, domain.ErrDuplicateStep)
}

func TestUpdateAndDeleteStep(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, domain.CreateRequest{PlayerType: "CORPORATE", StepNumber: 1, Description: "Intro"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, domain.CreateRequest{PlayerType: "CORPORATE", StepNumber: 2, Description: "Demo"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, second.ID.String(), domain.UpdateRequest{StepNumber: ptr(1)})
	assert.ErrorIs(t, err, domain.ErrDuplicateStep)

	updated, err := svc.Update(ctx, second.ID.String(), domain.UpdateRequest{StepNumber: ptr(3), Output: ptr("Signed pilot")})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.StepNumber)
	assert.Equal(t, "Signed pilot", updated.Output)

	_, err = svc.Update(ctx, first.ID.String(), domain.UpdateRequest{})
	assert.ErrorIs(t, err, domain.ErrEmptyUpdate)

	require.NoError(t, svc.Delete(ctx, first.ID.String()))
	assert.ErrorIs(t, svc.Delete(ctx, first.ID.String()), domain.ErrNotFound)
}
