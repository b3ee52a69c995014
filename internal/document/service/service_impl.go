package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/fluxcrm/internal/clock"
	"github.com/smallbiznis/fluxcrm/internal/document/domain"
	leaddomain "github.com/smallbiznis/fluxcrm/internal/lead/domain"
	"github.com/smallbiznis/fluxcrm/internal/observability/metrics"
	"github.com/smallbiznis/fluxcrm/pkg/codename"
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
	Repo    domain.Repository
	Leads   leaddomain.Repository
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	leads   leaddomain.Repository
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("document.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		leads:   p.Leads,
		metrics: p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateDocumentRequest) (domain.Document, error) {
	leadID, err := s.requireLead(ctx, req.LeadID)
	if err != nil {
		return domain.Document{}, err
	}

	docType := codename.Normalize(req.Type)
	if docType == "" {
		docType = domain.TypeOther
	}

	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if status == "" {
		status = domain.StatusDraft
	}
	if !domain.IsValidStatus(status) {
		return domain.Document{}, domain.ErrInvalidStatus
	}

	now := s.clock.Now()
	doc := domain.Document{
		ID:         s.genID.Generate(),
		LeadID:     leadID,
		Type:       docType,
		CustomName: strings.TrimSpace(req.CustomName),
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	stampTransition(&doc, "", status, now)

	if err := s.repo.Insert(ctx, s.db, &doc); err != nil {
		return domain.Document{}, err
	}

	s.log.Info("document created",
		zap.String("document_id", doc.ID.String()),
		zap.String("type", doc.Type),
		zap.String("status", doc.Status),
	)
	return doc, nil
}

func (s *Service) ListByLead(ctx context.Context, leadID string) ([]domain.Document, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(leadID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidLeadID
	}

	docs, err := s.repo.ListByLead(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return docs, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateDocumentRequest) (domain.Document, error) {
	docID, err := parseID(id)
	if err != nil {
		return domain.Document{}, err
	}

	existing, err := s.repo.FindByID(ctx, s.db, docID)
	if err != nil {
		return domain.Document{}, err
	}
	if existing == nil {
		return domain.Document{}, domain.ErrNotFound
	}

	fields := map[string]any{}
	if req.Type != nil {
		docType := codename.Normalize(*req.Type)
		if docType == "" {
			return domain.Document{}, domain.ErrInvalidType
		}
		fields["type"] = docType
	}
	if req.CustomName != nil {
		fields["custom_name"] = strings.TrimSpace(*req.CustomName)
	}

	now := s.clock.Now()
	if req.Status != nil {
		status := strings.ToUpper(strings.TrimSpace(*req.Status))
		if !domain.IsValidStatus(status) {
			return domain.Document{}, domain.ErrInvalidStatus
		}
		fields["status"] = status

		stamped := *existing
		stampTransition(&stamped, existing.Status, status, now)
		if stamped.SharedAt != existing.SharedAt {
			fields["shared_at"] = stamped.SharedAt
		}
		if stamped.SignedAt != existing.SignedAt {
			fields["signed_at"] = stamped.SignedAt
		}
	}
	if len(fields) == 0 {
		return domain.Document{}, domain.ErrEmptyUpdate
	}

	fields["updated_at"] = now
	if err := s.repo.Update(ctx, s.db, docID, fields); err != nil {
		return domain.Document{}, err
	}

	updated, err := s.repo.FindByID(ctx, s.db, docID)
	if err != nil {
		return domain.Document{}, err
	}
	if updated == nil {
		return domain.Document{}, domain.ErrNotFound
	}
	return *updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	docID, err := parseID(id)
	if err != nil {
		return err
	}

	affected, err := s.repo.Delete(ctx, s.db, docID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	s.metrics.RecordDelete(ctx, "document")
	return nil
}

// stampTransition records when a document enters SHARED or SIGNED. Leaving
// a status keeps its timestamp.
func stampTransition(doc *domain.Document, from, to string, now time.Time) {
	if from == to {
		return
	}
	switch to {
	case domain.StatusShared:
		doc.SharedAt = &now
	case domain.StatusSigned:
		doc.SignedAt = &now
	}
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

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
