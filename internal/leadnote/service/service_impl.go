package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/fluxcrm/internal/actorcontext"
	"github.com/smallbiznis/fluxcrm/internal/clock"
	leaddomain "github.com/smallbiznis/fluxcrm/internal/lead/domain"
	"github.com/smallbiznis/fluxcrm/internal/leadnote/domain"
	"github.com/smallbiznis/fluxcrm/internal/observability/metrics"
	"github.com/smallbiznis/fluxcrm/pkg/db/option"
	"github.com/smallbiznis/fluxcrm/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
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
	store   repository.Repository[domain.LeadNote]
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("leadnote.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		leads:   p.Leads,
		store:   repository.ProvideStore[domain.LeadNote](p.DB),
		metrics: p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.LeadNote, error) {
	actor, ok := actorcontext.FromContext(ctx)
	if !ok {
		return domain.LeadNote{}, domain.ErrUnauthenticated
	}

	if strings.TrimSpace(req.LeadID) == "" {
		return domain.LeadNote{}, domain.ErrInvalidLeadID
	}
	leadID, err := snowflake.ParseString(strings.TrimSpace(req.LeadID))
	if err != nil || leadID == 0 {
		return domain.LeadNote{}, domain.ErrLeadNotFound
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return domain.LeadNote{}, domain.ErrInvalidContent
	}

	updateType := strings.ToUpper(strings.TrimSpace(req.UpdateType))
	if updateType == "" {
		updateType = domain.UpdateTypeGeneral
	}
	if !domain.IsValidUpdateType(updateType) {
		return domain.LeadNote{}, domain.ErrInvalidUpdateType
	}

	lead, err := s.leads.FindByID(ctx, s.db, leadID)
	if err != nil {
		return domain.LeadNote{}, err
	}
	if lead == nil {
		return domain.LeadNote{}, domain.ErrLeadNotFound
	}

	author := strings.TrimSpace(actor.Name)
	if author == "" {
		author = actor.Email
	}

	note := domain.LeadNote{
		ID:          s.genID.Generate(),
		LeadID:      leadID,
		Content:     content,
		UpdateType:  updateType,
		CreatedBy:   author,
		CreatedByID: actor.UserID,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.store.Create(ctx, &note); err != nil {
		return domain.LeadNote{}, err
	}
	return note, nil
}

// ListByLead returns the newest notes first.
func (s *Service) ListByLead(ctx context.Context, leadID string) ([]domain.LeadNote, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(leadID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidLeadID
	}

	items, err := s.store.Find(ctx, &domain.LeadNote{LeadID: id},
		option.WithOrder("created_at DESC, id DESC"),
	)
	if err != nil {
		return nil, err
	}

	notes := make([]domain.LeadNote, 0, len(items))
	for _, item := range items {
		notes = append(notes, *item)
	}
	return notes, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	noteID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || noteID == 0 {
		return domain.ErrInvalidID
	}

	affected, err := s.store.Delete(ctx, noteID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	s.metrics.RecordDelete(ctx, "lead_note")
	return nil
}
