package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/fluxcrm/internal/actorcontext"
	"github.com/smallbiznis/fluxcrm/internal/auth/domain"
	"github.com/smallbiznis/fluxcrm/internal/auth/repository"
	"github.com/smallbiznis/fluxcrm/internal/auth/token"
	"github.com/smallbiznis/fluxcrm/internal/authorization"
	"github.com/smallbiznis/fluxcrm/internal/clock"
	"github.com/smallbiznis/fluxcrm/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.User{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:     conn,
		Log:    zap.NewNop(),
		GenID:  node,
		Repo:   repository.Provide(),
		Tokens: token.NewIssuer([]byte("test-secret"), time.Hour, "fluxcrm", clock.SystemClock{}),
	})
	return svc, conn
}

func TestRegisterFirstUserIsAdmin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, domain.RegisterRequest{Name: "Asha", Email: "Asha@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, authorization.RoleAdmin, first.User.Role)
	assert.Equal(t, "asha@example.com", first.User.Email)
	assert.NotEmpty(t, first.AccessToken)
	assert.Equal(t, token.TokenType, first.TokenType)

	second, err := svc.Register(ctx, domain.RegisterRequest{Name: "Ravi", Email: "ravi@example.com", Password: "secret2"})
	require.NoError(t, err)
	assert.Equal(t, authorization.RoleUser, second.User.Role)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  domain.RegisterRequest
		err  error
	}{
		{"missing name", domain.RegisterRequest{Email: "a@example.com", Password: "secret1"}, domain.ErrInvalidName},
		{"bad email", domain.RegisterRequest{Name: "A", Email: "not-an-email", Password: "secret1"}, domain.ErrInvalidEmail},
		{"short password", domain.RegisterRequest{Name: "A", Email: "a@example.com", Password: "abc"}, domain.ErrInvalidPassword},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.req)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, domain.RegisterRequest{Name: "Other", Email: "ASHA@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestLoginAndAuthenticate(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, domain.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "asha@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	result, err := svc.Login(ctx, domain.LoginRequest{Email: " ASHA@example.com ", Password: "secret1"})
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, user.ID)

	_, err = svc.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	require.NoError(t, conn.Model(&domain.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)

	_, err = svc.Authenticate(ctx, result.AccessToken)
	assert.ErrorIs(t, err, domain.ErrInactiveUser)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "asha@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrInactiveUser)
}

func TestCurrentUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CurrentUser(ctx)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	registered, err := svc.Register(ctx, domain.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "secret1"})
	require.NoError(t, err)

	ctx = actorcontext.WithActor(ctx, actorcontext.Actor{UserID: registered.User.ID, Role: registered.User.Role})
	user, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Asha", user.Name)
}
