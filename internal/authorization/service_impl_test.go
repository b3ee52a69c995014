package authorization

import (
	"context"
	"testing"

	"github.com/smallbiznis/fluxcrm/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	enforcer, err := NewMemoryEnforcer()
	require.NoError(t, err)
	return NewService(Params{Log: zap.NewNop(), Enforcer: enforcer})
}

func TestCapabilityTable(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		role    string
		object  string
		action  string
		allowed bool
	}{
		{RoleViewer, ObjectLead, ActionView, true},
		{RoleViewer, ObjectLead, ActionCreate, false},
		{RoleViewer, ObjectAnalytics, ActionView, true},
		{RoleViewer, ObjectTeam, ActionView, false},
		{RoleUser, ObjectLead, ActionCreate, true},
		{RoleUser, ObjectOrganization, ActionDelete, true},
		{RoleUser, ObjectLeadNote, ActionCreate, true},
		{RoleUser, ObjectOrgType, ActionCreate, false},
		{RoleUser, ObjectSalesFlow, ActionUpdate, false},
		{RoleManager, ObjectOrgType, ActionDelete, true},
		{RoleManager, ObjectLead, ActionDelete, true},
		{RoleManager, ObjectTeam, ActionView, false},
		{RoleManager, ObjectTeam, ActionCreate, false},
		{RoleAdmin, ObjectTeam, ActionCreate, true},
		{RoleAdmin, ObjectTeam, ActionDelete, true},
		{RoleAdmin, ObjectSalesFlow, ActionCreate, true},
	}

	for _, tc := range cases {
		err := svc.Authorize(ctx, tc.role, tc.object, tc.action)
		if tc.allowed {
			assert.NoError(t, err, "%s %s %s", tc.role, tc.object, tc.action)
		} else {
			assert.ErrorIs(t, err, ErrForbidden, "%s %s %s", tc.role, tc.object, tc.action)
		}
	}
}

func TestOnlyAdminManagesTeam(t *testing.T) {
	svc := newTestService(t)
	for _, role := range Roles() {
		for _, action := range []string{ActionCreate, ActionUpdate, ActionDelete} {
			err := svc.Authorize(context.Background(), role, ObjectTeam, action)
			if role == RoleAdmin {
				assert.NoError(t, err)
				continue
			}
			assert.ErrorIs(t, err, ErrForbidden)
		}
	}
}

func TestAuthorizeRejectsUnknownRole(t *testing.T) {
	svc := newTestService(t)
	assert.ErrorIs(t, svc.Authorize(context.Background(), "owner", ObjectLead, ActionView), ErrInvalidRole)
	assert.ErrorIs(t, svc.Authorize(context.Background(), RoleAdmin, "", ActionView), ErrInvalidObject)
}

func TestPersistentEnforcerSeedsOnce(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)

	first, err := NewEnforcer(conn)
	require.NoError(t, err)
	second, err := NewEnforcer(conn)
	require.NoError(t, err)

	firstPolicies, err := first.GetPolicy()
	require.NoError(t, err)
	secondPolicies, err := second.GetPolicy()
	require.NoError(t, err)
	assert.Equal(t, len(firstPolicies), len(secondPolicies))
	assert.Len(t, secondPolicies, len(capabilityPolicies()))
}
