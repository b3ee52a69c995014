package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/fluxcrm/internal/actorcontext"
	authdomain "github.com/smallbiznis/fluxcrm/internal/auth/domain"
	"github.com/smallbiznis/fluxcrm/internal/auth/password"
	"github.com/smallbiznis/fluxcrm/internal/authorization"
	"github.com/smallbiznis/fluxcrm/internal/team/domain"
	"github.com/smallbiznis/fluxcrm/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Users authdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	users authdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("team.service"),
		genID: p.GenID,
		users: p.Users,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Member, error) {
	users, err := s.users.List(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.Member{}
	}
	return users, nil
}

func (s *Service) Invite(ctx context.Context, req domain.InviteRequest) (domain.Member, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Member{}, authdomain.ErrInvalidName
	}
	email, err := authdomain.NormalizeEmail(req.Email)
	if err != nil {
		return domain.Member{}, err
	}
	if len(req.Password) < password.MinLength {
		return domain.Member{}, authdomain.ErrInvalidPassword
	}
	role, err := normalizeRole(req.Role, authorization.RoleUser)
	if err != nil {
		return domain.Member{}, err
	}

	existing, err := s.users.FindByEmail(ctx, s.db, email)
	if err != nil && !errors.Is(err, authdomain.ErrUserNotFound) {
		return domain.Member{}, err
	}
	if existing != nil {
		return domain.Member{}, authdomain.ErrUserExists
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return domain.Member{}, err
	}

	member := domain.Member{
		ID:           s.genID.Generate(),
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, s.db, &member); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Member{}, authdomain.ErrUserExists
		}
		return domain.Member{}, err
	}

	s.log.Info("team member invited",
		zap.String("user_id", member.ID.String()),
		zap.String("role", member.Role),
	)
	return member, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (domain.Member, error) {
	actor, ok := actorcontext.FromContext(ctx)
	if !ok {
		return domain.Member{}, domain.ErrUnauthenticated
	}
	userID, err := parseID(id)
	if err != nil {
		return domain.Member{}, err
	}

	fields := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Member{}, authdomain.ErrInvalidName
		}
		fields["name"] = name
	}
	if req.Role != nil {
		role, err := normalizeRole(*req.Role, "")
		if err != nil {
			return domain.Member{}, err
		}
		if userID == actor.UserID && role != authorization.RoleAdmin {
			return domain.Member{}, domain.ErrSelfModification
		}
		fields["role"] = role
	}
	if req.IsActive != nil {
		if userID == actor.UserID && !*req.IsActive {
			return domain.Member{}, domain.ErrSelfModification
		}
		fields["is_active"] = *req.IsActive
	}
	if len(fields) == 0 {
		return domain.Member{}, domain.ErrEmptyUpdate
	}

	if err := s.users.UpdateFields(ctx, s.db, userID, fields); err != nil {
		if errors.Is(err, authdomain.ErrUserNotFound) {
			return domain.Member{}, domain.ErrNotFound
		}
		return domain.Member{}, err
	}

	member, err := s.users.FindByID(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, authdomain.ErrUserNotFound) {
			return domain.Member{}, domain.ErrNotFound
		}
		return domain.Member{}, err
	}
	return *member, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	actor, ok := actorcontext.FromContext(ctx)
	if !ok {
		return domain.ErrUnauthenticated
	}
	userID, err := parseID(id)
	if err != nil {
		return err
	}
	if userID == actor.UserID {
		return domain.ErrSelfModification
	}

	if err := s.users.Delete(ctx, s.db, userID); err != nil {
		if errors.Is(err, authdomain.ErrUserNotFound) {
			return domain.ErrNotFound
		}
		return err
	}

	s.log.Info("team member removed",
		zap.String("user_id", userID.String()),
		zap.String("actor_id", actor.UserID.String()),
	)
	return nil
}

func normalizeRole(raw string, fallback string) (string, error) {
	role := strings.ToLower(strings.TrimSpace(raw))
	if role == "" {
		role = fallback
	}
	if !authorization.IsValidRole(role) {
		return "", authdomain.ErrInvalidRole
	}
	return role, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
