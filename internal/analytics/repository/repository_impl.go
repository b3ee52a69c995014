package repository

import (
	"context"

	"github.com/smallbiznis/fluxcrm/internal/analytics/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListLeads(ctx context.Context, db *gorm.DB) ([]domain.LeadRow, error) {
	var rows []domain.LeadRow
	err := db.WithContext(ctx).Raw(
		`SELECT l.id, l.organization_id, l.stage, l.status, l.offered_price, l.agreed_price,
		        l.expected_volume, l.probability, o.type AS org_type, o.state AS org_state
		 FROM leads l
		 LEFT JOIN organizations o ON o.id = l.organization_id`,
	).Scan(&rows).Error
	return rows, err
}

func (r *repo) ListOrganizations(ctx context.Context, db *gorm.DB) ([]domain.OrganizationRow, error) {
	var rows []domain.OrganizationRow
	err := db.WithContext(ctx).Raw(`SELECT id, type, state FROM organizations`).Scan(&rows).Error
	return rows, err
}

func (r *repo) ListStageNames(ctx context.Context, db *gorm.DB) ([]string, error) {
	var names []string
	err := db.WithContext(ctx).Raw(`SELECT name FROM lead_stages ORDER BY sort_order, name`).Scan(&names).Error
	return names, err
}

func (r *repo) ListOrgTypeNames(ctx context.Context, db *gorm.DB) ([]string, error) {
	var names []string
	err := db.WithContext(ctx).Raw(`SELECT name FROM organization_types ORDER BY is_default DESC, name`).Scan(&names).Error
	return names, err
}
