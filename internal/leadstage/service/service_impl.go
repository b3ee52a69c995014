package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/fluxcrm/internal/leadstage/domain"
	"github.com/smallbiznis/fluxcrm/internal/observability/metrics"
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
	repo    repository.Repository[domain.LeadStage]
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:     p.Log.Named("leadstage.service"),
		genID:   p.GenID,
		repo:    repository.ProvideStore[domain.LeadStage](p.DB),
		metrics: p.Metrics,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.LeadStage, error) {
	items, err := s.repo.Find(ctx, &domain.LeadStage{}, option.WithOrder("sort_order ASC, name ASC"))
	if err != nil {
		return nil, err
	}

	stages := make([]domain.LeadStage, 0, len(items))
	for _, item := range items {
		stages = append(stages, *item)
	}
	return stages, nil
}

func (s *Service) First(ctx context.Context) (domain.LeadStage, error) {
	item, err := s.repo.FindOne(ctx, &domain.LeadStage{}, option.WithOrder("sort_order ASC, name ASC"))
	if err != nil {
		return domain.LeadStage{}, err
	}
	if item == nil {
		return domain.LeadStage{}, domain.ErrNoStages
	}
	return *item, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.LeadStage, error) {
	name := codename.Normalize(req.Name)
	if name == "" {
		return domain.LeadStage{}, domain.ErrInvalidName
	}

	color := strings.TrimSpace(req.Color)
	if color == "" {
		color = domain.DefaultColor
	}
	if !colorPattern.MatchString(color) {
		return domain.LeadStage{}, domain.ErrInvalidColor
	}

	existing, err := s.repo.FindOne(ctx, &domain.LeadStage{Name: name})
	if err != nil {
		return domain.LeadStage{}, err
	}
	if existing != nil {
		return domain.LeadStage{}, domain.ErrAlreadyExists
	}

	order, err := s.resolveOrder(ctx, req.Order)
	if err != nil {
		return domain.LeadStage{}, err
	}

	stage := domain.LeadStage{
		ID:    s.genID.Generate(),
		Name:  name,
		Order: order,
		Color: strings.ToLower(color),
	}
	if err := s.repo.Create(ctx, &stage); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.LeadStage{}, domain.ErrAlreadyExists
		}
		return domain.LeadStage{}, err
	}

	s.log.Info("lead stage created", zap.String("name", name), zap.Int("order", order))
	return stage, nil
}

// resolveOrder places a stage without an explicit order after the current last one.
func (s *Service) resolveOrder(ctx context.Context, requested *int) (int, error) {
	if requested != nil {
		if *requested < 0 {
			return 0, domain.ErrInvalidOrder
		}
		return *requested, nil
	}

	last, err := s.repo.FindOne(ctx, &domain.LeadStage{}, option.WithOrder("sort_order DESC"))
	if err != nil {
		return 0, err
	}
	if last == nil {
		return 1, nil
	}
	return last.Order + 1, nil
}

// Delete removes a custom stage. Leads already in that stage keep it.
func (s *Service) Delete(ctx context.Context, id string) error {
	stageID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || stageID == 0 {
		return domain.ErrInvalidID
	}

	existing, err := s.repo.FindByID(ctx, stageID)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	if existing.IsDefault {
		return domain.ErrDefaultStageLocked
	}

	if _, err := s.repo.Delete(ctx, stageID); err != nil {
		return err
	}

	s.metrics.RecordDelete(ctx, "lead_stage")
	s.log.Info("lead stage deleted", zap.String("name", existing.Name))
	return nil
}

func (s *Service) Exists(ctx context.Context, name string) (bool, error) {
	normalized := codename.Normalize(name)
	if normalized == "" {
		return false, nil
	}
	count, err := s.repo.Count(ctx, &domain.LeadStage{Name: normalized})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
