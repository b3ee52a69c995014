package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/fluxcrm/internal/leadstage/domain"
	"github.com/smallbiznis/fluxcrm/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T, seed bool) domain.Service {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.LeadStage{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	if seed {
		for _, def := range domain.Defaults {
			def.ID = node.Generate()
			require.NoError(t, conn.Create(&def).Error)
		}
	}

	return New(Params{DB: conn, Log: zap.NewNop(), GenID: node})
}

func TestListSortedByOrder(t *testing.T) {
	svc := newTestService(t, true)

	stages, err := svc.List(context.Background())
	require.NoError(t, err)

	names := make([]string, 0, len(stages))
	for _, stage := range stages {
		names = append(names, stage.Name)
	}
	assert.Equal(t, []string{"IDENTIFIED", "QUALIFIED", "DEMO", "PILOT", "COMMERCIAL", "CLOSED"}, names)

	first, err := svc.First(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "IDENTIFIED", first.Name)
}

func TestCreateAppendsAfterLastStage(t *testing.T) {
	svc := newTestService(t, true)
	ctx := context.Background()

	stage, err := svc.Create(ctx, domain.CreateRequest{Name: "Negotiation"})
	require.NoError(t, err)
	assert.Equal(t, "NEGOTIATION", stage.Name)
	assert.Equal(t, 7, stage.Order)

	order := 0
	early, err := svc.Create(ctx, domain.CreateRequest{Name: "Cold", Order: &order})
	require.NoError(t, err)

	first, err := svc.First(ctx)
	require.NoError(t, err)
	assert.Equal(t, early.ID, first.ID)

	_, err = svc.Create(ctx, domain.CreateRequest{Name: "demo"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	negative := -1
	_, err = svc.Create(ctx, domain.CreateRequest{Name: "Lost", Order: &negative})
	assert.ErrorIs(t, err, domain.ErrInvalidOrder)
}

func TestFirstWithoutStages(t *testing.T) {
	svc := newTestService(t, false)

	_, err := svc.First(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoStages)

	stage, err := svc.Create(context.Background(), domain.CreateRequest{Name: "Only"})
	require.NoError(t, err)
	assert.Equal(t, 1, stage.Order)
}

func TestDeleteStagePolicy(t *testing.T) {
	svc := newTestService(t, true)
	ctx := context.Background()

	first, err := svc.First(ctx)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Delete(ctx, first.ID.String()), domain.ErrDefaultStageLocked)

	custom, err := svc.Create(ctx, domain.CreateRequest{Name: "Negotiation"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, custom.ID.String()))

	ok, err := svc.Exists(ctx, "negotiation")
	require.NoError(t, err)
	assert.False(t, ok)
}
