package service

import (
	"context"
	"math"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/fluxcrm/internal/clock"
	"github.com/smallbiznis/fluxcrm/internal/config"
	"github.com/smallbiznis/fluxcrm/internal/lead/domain"
	"github.com/smallbiznis/fluxcrm/internal/lead/format"
	leadstagedomain "github.com/smallbiznis/fluxcrm/internal/leadstage/domain"
	"github.com/smallbiznis/fluxcrm/internal/observability/metrics"
	"github.com/smallbiznis/fluxcrm/pkg/civildate"
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
	Cfg      config.Config
	DataLoad *config.DataLoadConfigHolder
	Clock    clock.Clock
	Repo     domain.Repository
	Stages   leadstagedomain.Service
	Metrics  *metrics.Metrics `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	codeTemplate string
	dataLoad     *config.DataLoadConfigHolder
	clock        clock.Clock
	repo         domain.Repository
	stages       leadstagedomain.Service
	metrics      *metrics.Metrics
}

func New(p Params) domain.Service {
	template := strings.TrimSpace(p.Cfg.LeadCodeTemplate)
	if template == "" {
		template = format.DefaultLeadCodeTemplate
	}
	clk := p.Clock
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("lead.service"),
		genID:        p.GenID,
		codeTemplate: template,
		dataLoad:     p.DataLoad,
		clock:        clk,
		repo:         p.Repo,
		stages:       p.Stages,
		metrics:      p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateLeadRequest) (*domain.LeadResponse, error) {
	leadName := strings.TrimSpace(req.LeadName)
	if leadName == "" {
		return nil, domain.ErrInvalidLeadName
	}
	if strings.TrimSpace(req.OrganizationID) == "" {
		return nil, domain.ErrInvalidOrganizationID
	}
	orgID, err := snowflake.ParseString(strings.TrimSpace(req.OrganizationID))
	if err != nil || orgID == 0 {
		return nil, domain.ErrOrganizationNotFound
	}
	product := strings.TrimSpace(req.Product)
	if product == "" {
		return nil, domain.ErrInvalidProduct
	}
	salesOwner := strings.TrimSpace(req.SalesOwner)
	if salesOwner == "" {
		return nil, domain.ErrInvalidSalesOwner
	}

	stage, err := s.resolveStage(ctx, req.Stage)
	if err != nil {
		return nil, err
	}

	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if status == "" {
		status = domain.StatusOpen
	}
	if !domain.IsValidStatus(status) {
		return nil, domain.ErrInvalidStatus
	}

	probability := domain.DefaultProbability
	if req.Probability != nil {
		probability = *req.Probability
	}
	if probability < 0 || probability > 100 {
		return nil, domain.ErrInvalidProbability
	}

	lead := domain.Lead{
		ID:             s.genID.Generate(),
		LeadName:       leadName,
		OrganizationID: orgID,
		Product:        product,
		SalesOwner:     salesOwner,
		Stage:          stage,
		Status:         status,
		Probability:    probability,
		Source:         strings.TrimSpace(req.Source),
		Remarks:        strings.TrimSpace(req.Remarks),
		Tags:           normalizeTags(req.Tags),
	}
	if req.OfferedPrice != nil {
		if !validAmount(*req.OfferedPrice) {
			return nil, domain.ErrInvalidOfferedPrice
		}
		lead.OfferedPrice = *req.OfferedPrice
	}
	if req.AgreedPrice != nil {
		if !validAmount(*req.AgreedPrice) {
			return nil, domain.ErrInvalidAgreedPrice
		}
		lead.AgreedPrice = *req.AgreedPrice
	}
	if req.ExpectedVolume != nil {
		if *req.ExpectedVolume < 0 {
			return nil, domain.ErrInvalidVolume
		}
		lead.ExpectedVolume = *req.ExpectedVolume
	}
	if strings.TrimSpace(req.ExpectedCloseDate) != "" {
		date, err := parseCloseDate(req.ExpectedCloseDate)
		if err != nil {
			return nil, err
		}
		lead.ExpectedCloseDate = date
	}

	now := s.clock.Now()
	lead.CreatedAt = now
	lead.UpdatedAt = now

	var org domain.OrganizationRef
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		refs, err := s.repo.FindOrganizations(ctx, tx, []snowflake.ID{orgID})
		if err != nil {
			return err
		}
		ref, ok := refs[orgID]
		if !ok {
			return domain.ErrOrganizationNotFound
		}
		org = ref

		seq, err := s.repo.NextSequence(ctx, tx, domain.SequenceName)
		if err != nil {
			return err
		}
		code, err := format.FormatLeadCode(s.codeTemplate, now, seq)
		if err != nil {
			return err
		}
		lead.LeadCode = code

		return s.repo.Insert(ctx, tx, &lead)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordLeadCreated(ctx, lead.Stage)
	s.log.Info("lead created",
		zap.String("lead_id", lead.ID.String()),
		zap.String("lead_code", lead.LeadCode),
		zap.String("stage", lead.Stage),
	)
	return s.respond(lead, org), nil
}

func (s *Service) List(ctx context.Context, req domain.ListLeadRequest) ([]domain.LeadResponse, error) {
	filter := domain.ListLeadFilter{
		Stage:      codename.Normalize(req.Stage),
		Status:     strings.ToUpper(strings.TrimSpace(req.Status)),
		SalesOwner: strings.TrimSpace(req.SalesOwner),
	}
	if raw := strings.TrimSpace(req.OrganizationID); raw != "" {
		orgID, err := snowflake.ParseString(raw)
		if err != nil || orgID == 0 {
			return nil, domain.ErrInvalidOrganizationID
		}
		filter.OrganizationID = orgID
	}

	leads, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	orgIDs := make([]snowflake.ID, 0, len(leads))
	seen := make(map[snowflake.ID]struct{}, len(leads))
	for _, lead := range leads {
		if _, ok := seen[lead.OrganizationID]; ok {
			continue
		}
		seen[lead.OrganizationID] = struct{}{}
		orgIDs = append(orgIDs, lead.OrganizationID)
	}
	refs, err := s.repo.FindOrganizations(ctx, s.db, orgIDs)
	if err != nil {
		return nil, err
	}

	items := make([]domain.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, *s.respond(lead, refs[lead.OrganizationID]))
	}
	return items, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.LeadResponse, error) {
	leadID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, leadID)
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateLeadRequest) (*domain.LeadResponse, error) {
	leadID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, s.db, leadID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}

	fields, err := s.buildPatch(ctx, *existing, req)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, domain.ErrEmptyUpdate
	}

	if orgID, ok := fields["organization_id"].(snowflake.ID); ok && orgID != existing.OrganizationID {
		refs, err := s.repo.FindOrganizations(ctx, s.db, []snowflake.ID{orgID})
		if err != nil {
			return nil, err
		}
		if _, ok := refs[orgID]; !ok {
			return nil, domain.ErrOrganizationNotFound
		}
	}

	fields["updated_at"] = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, leadID, fields); err != nil {
		return nil, err
	}

	if status, ok := fields["status"].(string); ok && status != existing.Status {
		s.metrics.RecordLeadStatusChange(ctx, existing.Status, status)
		s.log.Info("lead status changed",
			zap.String("lead_id", leadID.String()),
			zap.String("from", existing.Status),
			zap.String("to", status),
		)
	}

	return s.load(ctx, leadID)
}

func (s *Service) buildPatch(ctx context.Context, existing domain.Lead, req domain.UpdateLeadRequest) (map[string]any, error) {
	fields := map[string]any{}

	if req.LeadName != nil {
		name := strings.TrimSpace(*req.LeadName)
		if name == "" {
			return nil, domain.ErrInvalidLeadName
		}
		fields["lead_name"] = name
	}
	if req.OrganizationID != nil {
		orgID, err := snowflake.ParseString(strings.TrimSpace(*req.OrganizationID))
		if err != nil || orgID == 0 {
			return nil, domain.ErrOrganizationNotFound
		}
		fields["organization_id"] = orgID
	}
	if req.Product != nil {
		product := strings.TrimSpace(*req.Product)
		if product == "" {
			return nil, domain.ErrInvalidProduct
		}
		fields["product"] = product
	}
	if req.SalesOwner != nil {
		owner := strings.TrimSpace(*req.SalesOwner)
		if owner == "" {
			return nil, domain.ErrInvalidSalesOwner
		}
		fields["sales_owner"] = owner
	}
	if req.OfferedPrice != nil {
		if !validAmount(*req.OfferedPrice) {
			return nil, domain.ErrInvalidOfferedPrice
		}
		fields["offered_price"] = *req.OfferedPrice
	}
	if req.AgreedPrice != nil {
		if !validAmount(*req.AgreedPrice) {
			return nil, domain.ErrInvalidAgreedPrice
		}
		fields["agreed_price"] = *req.AgreedPrice
	}
	if req.ExpectedVolume != nil {
		if *req.ExpectedVolume < 0 {
			return nil, domain.ErrInvalidVolume
		}
		fields["expected_volume"] = *req.ExpectedVolume
	}
	if req.Stage != nil {
		if strings.TrimSpace(*req.Stage) == "" {
			return nil, domain.ErrInvalidStage
		}
		// a stage deleted after assignment stays valid on the lead
		if stage := codename.Normalize(*req.Stage); stage == existing.Stage {
			fields["stage"] = stage
		} else {
			stage, err := s.resolveStage(ctx, *req.Stage)
			if err != nil {
				return nil, err
			}
			fields["stage"] = stage
		}
	}
	if req.Status != nil {
		status := strings.ToUpper(strings.TrimSpace(*req.Status))
		if !domain.IsValidStatus(status) {
			return nil, domain.ErrInvalidStatus
		}
		fields["status"] = status
	}
	if req.Probability != nil {
		if *req.Probability < 0 || *req.Probability > 100 {
			return nil, domain.ErrInvalidProbability
		}
		fields["probability"] = *req.Probability
	}
	if req.ExpectedCloseDate != nil {
		if strings.TrimSpace(*req.ExpectedCloseDate) == "" {
			fields["expected_close_date"] = nil
		} else {
			date, err := parseCloseDate(*req.ExpectedCloseDate)
			if err != nil {
				return nil, err
			}
			fields["expected_close_date"] = *date
		}
	}
	if req.Source != nil {
		fields["source"] = strings.TrimSpace(*req.Source)
	}
	if req.Remarks != nil {
		fields["remarks"] = strings.TrimSpace(*req.Remarks)
	}
	if req.Tags != nil {
		fields["tags"] = normalizeTags(req.Tags)
	}

	return fields, nil
}

// Delete removes the lead and everything attached to it in one transaction.
func (s *Service) Delete(ctx context.Context, id string) error {
	leadID, err := parseID(id)
	if err != nil {
		return err
	}

	affected, err := s.repo.Delete(ctx, s.db, leadID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	s.metrics.RecordDelete(ctx, "lead")
	s.log.Info("lead deleted", zap.String("lead_id", leadID.String()))
	return nil
}

func (s *Service) load(ctx context.Context, id snowflake.ID) (*domain.LeadResponse, error) {
	lead, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, domain.ErrNotFound
	}

	refs, err := s.repo.FindOrganizations(ctx, s.db, []snowflake.ID{lead.OrganizationID})
	if err != nil {
		return nil, err
	}
	return s.respond(*lead, refs[lead.OrganizationID]), nil
}

func (s *Service) respond(lead domain.Lead, org domain.OrganizationRef) *domain.LeadResponse {
	if lead.Tags == nil {
		lead.Tags = datatypes.JSONSlice[string]{}
	}
	return &domain.LeadResponse{
		Lead:             lead,
		OrganizationName: org.Name,
		OrganizationType: org.Type,
		Derived:          domain.ComputeDerived(lead, s.dataLoad.Get()),
	}
}

// resolveStage normalizes the stage name, falling back to the first stage
// when none is given.
func (s *Service) resolveStage(ctx context.Context, raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		first, err := s.stages.First(ctx)
		if err != nil {
			return "", err
		}
		return first.Name, nil
	}

	stage := codename.Normalize(raw)
	ok, err := s.stages.Exists(ctx, stage)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrInvalidStage
	}
	return stage, nil
}

func parseCloseDate(raw string) (*datatypes.Date, error) {
	date, err := civildate.Parse(raw)
	if err != nil {
		return nil, domain.ErrInvalidCloseDate
	}
	return &date, nil
}

func normalizeTags(tags []string) datatypes.JSONSlice[string] {
	out := datatypes.JSONSlice[string]{}
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func validAmount(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
