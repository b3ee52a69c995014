package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/fluxcrm/internal/clock"
	leaddomain "github.com/smallbiznis/fluxcrm/internal/lead/domain"
	"github.com/smallbiznis/fluxcrm/internal/milestone/domain"
	"github.com/smallbiznis/fluxcrm/internal/observability/metrics"
	"github.com/smallbiznis/fluxcrm/pkg/civildate"
	"github.com/smallbiznis/fluxcrm/pkg/db/option"
	"github.com/smallbiznis/fluxcrm/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Leads   leaddomain.Repository
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	leads   leaddomain.Repository
	store   repository.Repository[domain.Milestone]
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("milestone.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		leads:   p.Leads,
		store:   repository.ProvideStore[domain.Milestone](p.DB),
		metrics: p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Milestone, error) {
	leadID, err := s.requireLead(ctx, req.LeadID)
	if err != nil {
		return domain.Milestone{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Milestone{}, domain.ErrInvalidName
	}

	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if status == "" {
		status = domain.StatusPending
	}
	if !domain.IsValidStatus(status) {
		return domain.Milestone{}, domain.ErrInvalidStatus
	}

	start, err := civildate.ParseOptional(req.StartDate)
	if err != nil {
		return domain.Milestone{}, domain.ErrInvalidDate
	}
	end, err := civildate.ParseOptional(req.EndDate)
	if err != nil {
		return domain.Milestone{}, domain.ErrInvalidDate
	}
	if !validRange(start, end) {
		return domain.Milestone{}, domain.ErrInvalidRange
	}

	now := s.clock.Now()
	milestone := domain.Milestone{
		ID:        s.genID.Generate(),
		LeadID:    leadID,
		Name:      name,
		StartDate: start,
		EndDate:   end,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Create(ctx, &milestone); err != nil {
		return domain.Milestone{}, err
	}
	return milestone, nil
}

func (s *Service) ListByLead(ctx context.Context, leadID string) ([]domain.Milestone, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(leadID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidLeadID
	}

	items, err := s.store.Find(ctx, &domain.Milestone{LeadID: id},
		option.WithOrder("created_at ASC, id ASC"),
	)
	if err != nil {
		return nil, err
	}

	milestones := make([]domain.Milestone, 0, len(items))
	for _, item := range items {
		milestones = append(milestones, *item)
	}
	return milestones, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (domain.Milestone, error) {
	milestoneID, err := parseID(id)
	if err != nil {
		return domain.Milestone{}, err
	}

	existing, err := s.store.FindByID(ctx, milestoneID)
	if err != nil {
		return domain.Milestone{}, err
	}
	if existing == nil {
		return domain.Milestone{}, domain.ErrNotFound
	}

	fields := map[string]any{}
	start, end := existing.StartDate, existing.EndDate
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Milestone{}, domain.ErrInvalidName
		}
		fields["name"] = name
	}
	if req.Status != nil {
		status := strings.ToUpper(strings.TrimSpace(*req.Status))
		if !domain.IsValidStatus(status) {
			return domain.Milestone{}, domain.ErrInvalidStatus
		}
		fields["status"] = status
	}
	if req.StartDate != nil {
		start, err = civildate.ParseOptional(*req.StartDate)
		if err != nil {
			return domain.Milestone{}, domain.ErrInvalidDate
		}
		fields["start_date"] = dateValue(start)
	}
	if req.EndDate != nil {
		end, err = civildate.ParseOptional(*req.EndDate)
		if err != nil {
			return domain.Milestone{}, domain.ErrInvalidDate
		}
		fields["end_date"] = dateValue(end)
	}
	if len(fields) == 0 {
		return domain.Milestone{}, domain.ErrEmptyUpdate
	}
	if !validRange(start, end) {
		return domain.Milestone{}, domain.ErrInvalidRange
	}

	fields["updated_at"] = s.clock.Now()
	if _, err := s.store.Update(ctx, milestoneID, fields); err != nil {
		return domain.Milestone{}, err
	}

	updated, err := s.store.FindByID(ctx, milestoneID)
	if err != nil {
		return domain.Milestone{}, err
	}
	if updated == nil {
		return domain.Milestone{}, domain.ErrNotFound
	}
	return *updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	milestoneID, err := parseID(id)
	if err != nil {
		return err
	}

	affected, err := s.store.Delete(ctx, milestoneID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	s.metrics.RecordDelete(ctx, "milestone")
	return nil
}

func (s *Service) requireLead(ctx context.Context, raw string) (snowflake.ID, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, domain.ErrInvalidLeadID
	}
	leadID, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || leadID == 0 {
		return 0, domain.ErrLeadNotFound
	}
	lead, err := s.leads.FindByID(ctx, s.db, leadID)
	if err != nil {
		return 0, err
	}
	if lead == nil {
		return 0, domain.ErrLeadNotFound
	}
	return leadID, nil
}

func validRange(start, end *datatypes.Date) bool {
	if start == nil || end == nil {
		return true
	}
	return !time.Time(*end).Before(time.Time(*start))
}

func dateValue(d *datatypes.Date) any {
	if d == nil {
		return nil
	}
	return *d
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
