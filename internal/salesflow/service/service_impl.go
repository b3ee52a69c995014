package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/fluxcrm/internal/clock"
	"github.com/smallbiznis/fluxcrm/internal/observability/metrics"
	orgtypedomain "github.com/smallbiznis/fluxcrm/internal/orgtype/domain"
	"github.com/smallbiznis/fluxcrm/internal/salesflow/domain"
	"github.com/smallbiznis/fluxcrm/pkg/codename"
	"github.com/smallbiznis/fluxcrm/pkg/db"
	"github.com/smallbiznis/fluxcrm/pkg/db/option"
	"github.com/smallbiznis/fluxcrm/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	OrgTypes orgtypedomain.Service
	Metrics  *metrics.Metrics `optional:"true"`
}

type Service struct {
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	store    repository.Repository[domain.Step]
	orgTypes orgtypedomain.Service
	metrics  *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("salesflow.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		store:    repository.ProvideStore[domain.Step](p.DB),
		orgTypes: p.OrgTypes,
		metrics:  p.Metrics,
	}
}

func (s *Service) List(ctx context.Context, playerType string) ([]domain.Step, error) {
	filter := &domain.Step{PlayerType: codename.Normalize(playerType)}
	items, err := s.store.Find(ctx, filter, option.WithOrder("player_type ASC, step_number ASC"))
	if err != nil {
		return nil, err
	}

	steps := make([]domain.Step, 0, len(items))
	for _, item := range items {
		steps = append(steps, *item)
	}
	return steps, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Step, error) {
	playerType, err := s.resolvePlayerType(ctx, req.PlayerType)
	if err != nil {
		return domain.Step{}, err
	}
	if req.StepNumber < 1 {
		return domain.Step{}, domain.ErrInvalidStepNumber
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return domain.Step{}, domain.ErrInvalidDescription
	}

	existing, err := s.store.FindOne(ctx, &domain.Step{PlayerType: playerType, StepNumber: req.StepNumber})
	if err != nil {
		return domain.Step{}, err
	}
	if existing != nil {
		return domain.Step{}, domain.ErrDuplicateStep
	}

	now := s.clock.Now()
	step := domain.Step{
		ID:          s.genID.Generate(),
		PlayerType:  playerType,
		StepNumber:  req.StepNumber,
		Description: description,
		Owner:       strings.TrimSpace(req.Owner),
		Output:      strings.TrimSpace(req.Output),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Create(ctx, &step); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Step{}, domain.ErrDuplicateStep
		}
		return domain.Step{}, err
	}
	return step, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (domain.Step, error) {
	stepID, err := parseID(id)
	if err != nil {
		return domain.Step{}, err
	}

	existing, err := s.store.FindByID(ctx, stepID)
	if err != nil {
		return domain.Step{}, err
	}
	if existing == nil {
		return domain.Step{}, domain.ErrNotFound
	}

	fields := map[string]any{}
	playerType, stepNumber := existing.PlayerType, existing.StepNumber
	if req.PlayerType != nil {
		playerType, err = s.resolvePlayerType(ctx, *req.PlayerType)
		if err != nil {
			return domain.Step{}, err
		}
		fields["player_type"] = playerType
	}
	if req.StepNumber != nil {
		if *req.StepNumber < 1 {
			return domain.Step{}, domain.ErrInvalidStepNumber
		}
		stepNumber = *req.StepNumber
		fields["step_number"] = stepNumber
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return domain.Step{}, domain.ErrInvalidDescription
		}
		fields["description"] = description
	}
	if req.Owner != nil {
		fields["owner"] = strings.TrimSpace(*req.Owner)
	}
	if req.Output != nil {
		fields["output"] = strings.TrimSpace(*req.Output)
	}
	if len(fields) == 0 {
		return domain.Step{}, domain.ErrEmptyUpdate
	}

	if playerType != existing.PlayerType || stepNumber != existing.StepNumber {
		clash, err := s.store.FindOne(ctx, &domain.Step{PlayerType: playerType, StepNumber: stepNumber})
		if err != nil {
			return domain.Step{}, err
		}
		if clash != nil && clash.ID != stepID {
			return domain.Step{}, domain.ErrDuplicateStep
		}
	}

	fields["updated_at"] = s.clock.Now()
	if _, err := s.store.Update(ctx, stepID, fields); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Step{}, domain.ErrDuplicateStep
		}
		return domain.Step{}, err
	}

	updated, err := s.store.FindByID(ctx, stepID)
	if err != nil {
		return domain.Step{}, err
	}
	if updated == nil {
		return domain.Step{}, domain.ErrNotFound
	}
	return *updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	stepID, err := parseID(id)
	if err != nil {
		return err
	}

	affected, err := s.store.Delete(ctx, stepID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	s.metrics.RecordDelete(ctx, "sales_flow")
	return nil
}

func (s *Service) resolvePlayerType(ctx context.Context, raw string) (string, error) {
	playerType := codename.Normalize(raw)
	if playerType == "" {
		return "", domain.ErrInvalidPlayerType
	}
	ok, err := s.orgTypes.Exists(ctx, playerType)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrInvalidPlayerType
	}
	return playerType, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
