package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/fluxcrm/internal/observability/metrics"
	"github.com/smallbiznis/fluxcrm/internal/orgtype/domain"
	"github.com/smallbiznis/fluxcrm/pkg/codename"
	"github.com/smallbiznis/fluxcrm/pkg/db"
	"github.com/smallbiznis/fluxcrm/pkg/db/option"
	"github.com/smallbiznis/fluxcrm/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	log     *zap.Logger
	genID   *snowflake.Node
	repo    repository.Repository[domain.OrganizationType]
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:     p.Log.Named("orgtype.service"),
		genID:   p.GenID,
		repo:    repository.ProvideStore[domain.OrganizationType](p.DB),
		metrics: p.Metrics,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.OrganizationType, error) {
	items, err := s.repo.Find(ctx, &domain.OrganizationType{},
		option.WithOrder("is_default DESC, name ASC"),
	)
	if err != nil {
		return nil, err
	}

	types := make([]domain.OrganizationType, 0, len(items))
	for _, item := range items {
		types = append(types, *item)
	}
	return types, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.OrganizationType, error) {
	name := codename.Normalize(req.Name)
	if name == "" {
		return domain.OrganizationType{}, domain.ErrInvalidName
	}

	color := strings.TrimSpace(req.Color)
	if color == "" {
		color = domain.DefaultColor
	}
	if !colorPattern.MatchString(color) {
		return domain.OrganizationType{}, domain.ErrInvalidColor
	}

	existing, err := s.repo.FindOne(ctx, &domain.OrganizationType{Name: name})
	if err != nil {
		return domain.OrganizationType{}, err
	}
	if existing != nil {
		return domain.OrganizationType{}, domain.ErrAlreadyExists
	}

	orgType := domain.OrganizationType{
		ID:    s.genID.Generate(),
		Name:  name,
		Color: strings.ToLower(color),
	}
	if err := s.repo.Create(ctx, &orgType); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.OrganizationType{}, domain.ErrAlreadyExists
		}
		return domain.OrganizationType{}, err
	}

	s.log.Info("organization type created", zap.String("name", name))
	return orgType, nil
}

// Delete removes a custom type. Organizations already labelled with it keep
// the label.
func (s *Service) Delete(ctx context.Context, id string) error {
	typeID, err := parseID(id)
	if err != nil {
		return err
	}

	existing, err := s.repo.FindByID(ctx, typeID)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	if existing.IsDefault {
		return domain.ErrDefaultTypeLocked
	}

	if _, err := s.repo.Delete(ctx, typeID); err != nil {
		return err
	}

	s.metrics.RecordDelete(ctx, "org_type")
	s.log.Info("organization type deleted", zap.String("name", existing.Name))
	return nil
}

func (s *Service) Exists(ctx context.Context, name string) (bool, error) {
	normalized := codename.Normalize(name)
	if normalized == "" {
		return false, nil
	}
	count, err := s.repo.Count(ctx, &domain.OrganizationType{Name: normalized})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
