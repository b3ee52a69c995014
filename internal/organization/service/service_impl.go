package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/fluxcrm/internal/observability/metrics"
	"github.com/smallbiznis/fluxcrm/internal/organization/domain"
	orgtypedomain "github.com/smallbiznis/fluxcrm/internal/orgtype/domain"
	referencedomain "github.com/smallbiznis/fluxcrm/internal/reference/domain"
	"github.com/smallbiznis/fluxcrm/pkg/codename"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	OrgTypes orgtypedomain.Service
	Metrics  *metrics.Metrics `optional:"true"`
}

type service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	orgTypes orgtypedomain.Service
	metrics  *metrics.Metrics
}

func NewService(p Params) domain.Service {
	return &service{
		db:       p.DB,
		log:      p.Log.Named("organization.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		orgTypes: p.OrgTypes,
		metrics:  p.Metrics,
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateOrganizationRequest) (*domain.OrganizationResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	orgType, err := s.resolveType(ctx, req.Type)
	if err != nil {
		return nil, err
	}
	state := normalizeState(req.State)
	if state == "" {
		return nil, domain.ErrInvalidState
	}
	city := strings.TrimSpace(req.City)
	if city == "" {
		return nil, domain.ErrInvalidCity
	}

	metadata := datatypes.JSONMap{}
	for k, v := range req.Metadata {
		metadata[k] = v
	}

	org := domain.Organization{
		ID:       s.genID.Generate(),
		Name:     name,
		Type:     orgType,
		State:    state,
		City:     city,
		Metadata: metadata,
	}
	if err := s.repo.Insert(ctx, &org); err != nil {
		return nil, err
	}

	s.log.Info("organization created",
		zap.String("organization_id", org.ID.String()),
		zap.String("type", org.Type),
	)
	return &domain.OrganizationResponse{Organization: org}, nil
}

func (s *service) List(ctx context.Context, req domain.ListOrganizationRequest) ([]domain.OrganizationResponse, error) {
	filter := domain.ListFilter{
		Type:  codename.Normalize(req.Type),
		State: normalizeState(req.State),
	}

	orgs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	ids := make([]snowflake.ID, 0, len(orgs))
	for _, org := range orgs {
		ids = append(ids, org.ID)
	}
	counts, err := s.repo.CountLeads(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]domain.OrganizationResponse, 0, len(orgs))
	for _, org := range orgs {
		items = append(items, domain.OrganizationResponse{
			Organization: org,
			LeadCount:    counts[org.ID],
		})
	}
	return items, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*domain.OrganizationResponse, error) {
	orgID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, s.repo, orgID)
}

func (s *service) Update(ctx context.Context, id string, req domain.UpdateOrganizationRequest) (*domain.OrganizationResponse, error) {
	orgID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}

	fields := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		fields["name"] = name
	}
	if req.Type != nil {
		// a type deleted after assignment stays valid on the organization
		if orgType := codename.Normalize(*req.Type); orgType != "" && orgType == existing.Type {
			fields["type"] = orgType
		} else {
			orgType, err := s.resolveType(ctx, *req.Type)
			if err != nil {
				return nil, err
			}
			fields["type"] = orgType
		}
	}
	if req.State != nil {
		state := normalizeState(*req.State)
		if state == "" {
			return nil, domain.ErrInvalidState
		}
		fields["state"] = state
	}
	if req.City != nil {
		city := strings.TrimSpace(*req.City)
		if city == "" {
			return nil, domain.ErrInvalidCity
		}
		fields["city"] = city
	}
	if req.Metadata != nil {
		fields["metadata"] = datatypes.JSONMap(req.Metadata)
	}
	if len(fields) == 0 {
		return nil, domain.ErrEmptyUpdate
	}

	if err := s.repo.Update(ctx, orgID, fields); err != nil {
		return nil, err
	}
	return s.load(ctx, s.repo, orgID)
}

// Delete refuses to remove an organization that leads still point at.
func (s *service) Delete(ctx context.Context, id string) error {
	orgID, err := parseID(id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		counts, err := repo.CountLeads(ctx, []snowflake.ID{orgID})
		if err != nil {
			return err
		}
		if counts[orgID] > 0 {
			return domain.ErrHasLeads
		}

		affected, err := repo.Delete(ctx, orgID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.RecordDelete(ctx, "organization")
	s.log.Info("organization deleted", zap.String("organization_id", orgID.String()))
	return nil
}

func (s *service) load(ctx context.Context, repo domain.Repository, id snowflake.ID) (*domain.OrganizationResponse, error) {
	org, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}

	counts, err := repo.CountLeads(ctx, []snowflake.ID{id})
	if err != nil {
		return nil, err
	}
	return &domain.OrganizationResponse{Organization: *org, LeadCount: counts[id]}, nil
}

func (s *service) resolveType(ctx context.Context, raw string) (string, error) {
	orgType := codename.Normalize(raw)
	if orgType == "" {
		return "", domain.ErrInvalidType
	}
	ok, err := s.orgTypes.Exists(ctx, orgType)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrInvalidType
	}
	return orgType, nil
}

// normalizeState returns the canonical spelling for known states and the
// trimmed input otherwise.
func normalizeState(raw string) string {
	if name, ok := referencedomain.MatchState(raw); ok {
		return name
	}
	return strings.TrimSpace(raw)
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
