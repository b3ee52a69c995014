package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/fluxcrm/internal/actorcontext"
	"github.com/smallbiznis/fluxcrm/internal/auth/domain"
	"github.com/smallbiznis/fluxcrm/internal/auth/password"
	"github.com/smallbiznis/fluxcrm/internal/auth/token"
	"github.com/smallbiznis/fluxcrm/internal/authorization"
	"github.com/smallbiznis/fluxcrm/internal/observability/metrics"
	"github.com/smallbiznis/fluxcrm/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Tokens  *token.Issuer
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	tokens  *token.Issuer
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("auth.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		tokens:  p.Tokens,
		metrics: p.Metrics,
	}
}

// Register creates an account. The first account in an empty system is an admin.
func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResult, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	email, err := domain.NormalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if len(req.Password) < password.MinLength {
		return nil, domain.ErrInvalidPassword
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           s.genID.Generate(),
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Role:         authorization.RoleUser,
		IsActive:     true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByEmail(ctx, tx, email)
		if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		if existing != nil {
			return domain.ErrUserExists
		}

		count, err := s.repo.Count(ctx, tx)
		if err != nil {
			return err
		}
		if count == 0 {
			user.Role = authorization.RoleAdmin
		}
		return s.repo.Create(ctx, tx, user)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrUserExists
		}
		return nil, err
	}

	s.log.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role),
	)
	return s.issue(user)
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResult, error) {
	email, err := domain.NormalizeEmail(req.Email)
	if err != nil {
		s.metrics.RecordLogin(ctx, "invalid")
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, s.db, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.metrics.RecordLogin(ctx, "invalid")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !password.Verify(req.Password, user.PasswordHash) {
		s.metrics.RecordLogin(ctx, "invalid")
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		s.metrics.RecordLogin(ctx, "inactive")
		return nil, domain.ErrInactiveUser
	}

	s.metrics.RecordLogin(ctx, "success")
	return s.issue(user)
}

// Authenticate re-reads the user so deactivation and role changes apply
// to tokens that were issued earlier.
func (s *Service) Authenticate(ctx context.Context, rawToken string) (*domain.User, error) {
	userID, _, err := s.tokens.Parse(rawToken)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.repo.FindByID(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrInactiveUser
	}
	return user, nil
}

func (s *Service) CurrentUser(ctx context.Context) (*domain.User, error) {
	actor, ok := actorcontext.FromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	user, err := s.repo.FindByID(ctx, s.db, actor.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) issue(user *domain.User) (*domain.AuthResult, error) {
	accessToken, expiresAt, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResult{
		AccessToken: accessToken,
		TokenType:   token.TokenType,
		ExpiresAt:   expiresAt,
		User:        *user,
	}, nil
}
