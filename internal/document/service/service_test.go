package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/fluxcrm/internal/clock"
	"github.com/smallbiznis/fluxcrm/internal/document/domain"
	"github.com/smallbiznis/fluxcrm/internal/document/repository"
	leaddomain "github.com/smallbiznis/fluxcrm/internal/lead/domain"
	leadrepo "github.com/smallbiznis/fluxcrm/internal/lead/repository"
	"github.com/smallbiznis/fluxcrm/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (domain.Service, *clock.FakeClock, snowflake.ID) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&leaddomain.Lead{}, &domain.Document{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	lead := leaddomain.Lead{
		ID: node.Generate(), LeadCode: "LEAD-000001", LeadName: "Pilot", OrganizationID: node.Generate(),
		Product: "Scan AI", SalesOwner: "asha", Stage: "PILOT", Status: leaddomain.StatusOpen, Probability: 10,
	}
	require.NoError(t, conn.Create(&lead).Error)

	clk := clock.NewFakeClock(time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC))
	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clk,
		Repo:  repository.Provide(),
		Leads: leadrepo.Provide(),
	})
	return svc, clk, lead.ID
}

func ptr[T any](v T) *T { return &v }

func TestCreateDocumentDefaults(t *testing.T) {
	svc, _, leadID := newTestService(t)

	doc, err := svc.Create(context.Background(), domain.CreateDocumentRequest{LeadID: leadID.String()})
	require.NoError(t, err)
	assert.Equal(t, domain.TypeOther, doc.Type)
	assert.Equal(t, domain.StatusDraft, doc.Status)
	assert.Nil(t, doc.SharedAt)
	assert.Nil(t, doc.SignedAt)

	custom, err := svc.Create(context.Background(), domain.CreateDocumentRequest{
		LeadID: leadID.String(), Type: "nda", CustomName: "Mutual NDA",
	})
	require.NoError(t, err)
	assert.Equal(t, "NDA", custom.Type)
	assert.False(t, domain.IsStandardType(custom.Type))
}

func TestCreateSharedDocumentIsStamped(t *testing.T) {
	svc, clk, leadID := newTestService(t)

	doc, err := svc.Create(context.Background(), domain.CreateDocumentRequest{
		LeadID: leadID.String(), Type: "proposal", Status: "shared",
	})
	require.NoError(t, err)
	require.NotNil(t, doc.SharedAt)
	assert.True(t, doc.SharedAt.Equal(clk.Now()))
	assert.Nil(t, doc.SignedAt)
}

func TestStatusTransitionsStampButNeverClear(t *testing.T) {
	svc, clk, leadID := newTestService(t)
	ctx := context.Background()

	doc, err := svc.Create(ctx, domain.CreateDocumentRequest{LeadID: leadID.String(), Type: "MOU"})
	require.NoError(t, err)

	clk.Advance(time.Hour)
	sharedAt := clk.Now()
	shared, err := svc.Update(ctx, doc.ID.String(), domain.UpdateDocumentRequest{Status: ptr("SHARED")})
	require.NoError(t, err)
	require.NotNil(t, shared.SharedAt)
	assert.True(t, shared.SharedAt.Equal(sharedAt))

	clk.Advance(time.Hour)
	signedAt := clk.Now()
	signed, err := svc.Update(ctx, doc.ID.String(), domain.UpdateDocumentRequest{Status: ptr("SIGNED")})
	require.NoError(t, err)
	require.NotNil(t, signed.SignedAt)
	assert.True(t, signed.SignedAt.Equal(signedAt))
	assert.True(t, signed.SharedAt.Equal(sharedAt))

	clk.Advance(time.Hour)
	draft, err := svc.Update(ctx, doc.ID.String(), domain.UpdateDocumentRequest{Status: ptr("DRAFT")})
	require.NoError(t, err)
	require.NotNil(t, draft.SharedAt)
	require.NotNil(t, draft.SignedAt)
	assert.True(t, draft.SignedAt.Equal(signedAt))

	clk.Advance(time.Hour)
	again, err := svc.Update(ctx, doc.ID.String(), domain.UpdateDocumentRequest{CustomName: ptr("v2")})
	require.NoError(t, err)
	assert.True(t, again.SignedAt.Equal(signedAt))
}

func TestDocumentErrors(t *testing.T) {
	svc, _, leadID := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateDocumentRequest{LeadID: "123"})
	assert.ErrorIs(t, err, domain.ErrLeadNotFound)

	_, err = svc.Create(ctx, domain.CreateDocumentRequest{LeadID: leadID.String(), Status: "LOST"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	doc, err := svc.Create(ctx, domain.CreateDocumentRequest{LeadID: leadID.String()})
	require.NoError(t, err)

	_, err = svc.Update(ctx, doc.ID.String(), domain.UpdateDocumentRequest{})
	assert.ErrorIs(t, err, domain.ErrEmptyUpdate)

	docs, err := svc.ListByLead(ctx, leadID.String())
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	require.NoError(t, svc.Delete(ctx, doc.ID.String()))
	assert.ErrorIs(t, svc.Delete(ctx, doc.ID.String()), domain.ErrNotFound)
}
