package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/fluxcrm/internal/actorcontext"
	authdomain "github.com/smallbiznis/fluxcrm/internal/auth/domain"
	authrepo "github.com/smallbiznis/fluxcrm/internal/auth/repository"
	"github.com/smallbiznis/fluxcrm/internal/authorization"
	"github.com/smallbiznis/fluxcrm/internal/team/domain"
	"github.com/smallbiznis/fluxcrm/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&authdomain.User{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{DB: conn, Log: zap.NewNop(), GenID: node, Users: authrepo.Provide()})
}

func adminContext(t *testing.T, svc domain.Service) (context.Context, domain.Member) {
	t.Helper()
	admin, err := svc.Invite(context.Background(), domain.InviteRequest{
		Name: "Admin", Email: "admin@example.com", Password: "secret1", Role: "admin",
	})
	require.NoError(t, err)
	ctx := actorcontext.WithActor(context.Background(), actorcontext.Actor{
		UserID: admin.ID, Name: admin.Name, Role: admin.Role,
	})
	return ctx, admin
}

func ptr[T any](v T) *T { return &v }

func TestInviteDefaultsAndDuplicates(t *testing.T) {
	svc := newTestService(t)
	ctx, _ := adminContext(t, svc)

	member, err := svc.Invite(ctx, domain.InviteRequest{Name: "Ravi", Email: "Ravi@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, authorization.RoleUser, member.Role)
	assert.Equal(t, "ravi@example.com", member.Email)
	assert.True(t, member.IsActive)

	_, err = svc.Invite(ctx, domain.InviteRequest{Name: "Dup", Email: "ravi@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, authdomain.ErrUserExists)

	_, err = svc.Invite(ctx, domain.InviteRequest{Name: "Bad", Email: "bad@example.com", Password: "secret1", Role: "owner"})
	assert.ErrorIs(t, err, authdomain.ErrInvalidRole)

	members, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestUpdateMember(t *testing.T) {
	svc := newTestService(t)
	ctx, _ := adminContext(t, svc)

	member, err := svc.Invite(ctx, domain.InviteRequest{Name: "Ravi", Email: "ravi@example.com", Password: "secret1"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, member.ID.String(), domain.UpdateRequest{
		Role:     ptr("manager"),
		IsActive: ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, authorization.RoleManager, updated.Role)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Ravi", updated.Name)

	_, err = svc.Update(ctx, member.ID.String(), domain.UpdateRequest{})
	assert.ErrorIs(t, err, domain.ErrEmptyUpdate)

	_, err = svc.Update(ctx, "12345", domain.UpdateRequest{Name: ptr("Ghost")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Update(ctx, "abc", domain.UpdateRequest{Name: ptr("Ghost")})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestAdminCannotModifySelf(t *testing.T) {
	svc := newTestService(t)
	ctx, admin := adminContext(t, svc)

	_, err := svc.Update(ctx, admin.ID.String(), domain.UpdateRequest{Role: ptr("user")})
	assert.ErrorIs(t, err, domain.ErrSelfModification)

	_, err = svc.Update(ctx, admin.ID.String(), domain.UpdateRequest{IsActive: ptr(false)})
	assert.ErrorIs(t, err, domain.ErrSelfModification)

	err = svc.Delete(ctx, admin.ID.String())
	assert.ErrorIs(t, err, domain.ErrSelfModification)

	renamed, err := svc.Update(ctx, admin.ID.String(), domain.UpdateRequest{Name: ptr("Chief")})
	require.NoError(t, err)
	assert.Equal(t, "Chief", renamed.Name)
}

func TestDeleteMember(t *testing.T) {
	svc := newTestService(t)
	ctx, _ := adminContext(t, svc)

	member, err := svc.Invite(ctx, domain.InviteRequest{Name: "Ravi", Email: "ravi@example.com", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, member.ID.String()))
	assert.ErrorIs(t, svc.Delete(ctx, member.ID.String()), domain.ErrNotFound)
}
