package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/fluxcrm/internal/organization/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) Insert(ctx context.Context, org *domain.Organization) error {
	return r.db.WithContext(ctx).Create(org).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Organization, error) {
	var org domain.Organization
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *repository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Organization, error) {
	stmt := r.db.WithContext(ctx).Model(&domain.Organization{})
	if filter.Type != "" {
		stmt = stmt.Where("type = ?", filter.Type)
	}
	if filter.State != "" {
		stmt = stmt.Where("state = ?", filter.State)
	}

	var orgs []domain.Organization
	if err := stmt.Order("created_at DESC, id DESC").Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

func (r *repository) Update(ctx context.Context, id snowflake.ID, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&domain.Organization{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Organization{})
	return res.RowsAffected, res.Error
}

func (r *repository) CountLeads(ctx context.Context, ids []snowflake.ID) (map[snowflake.ID]int64, error) {
	counts := make(map[snowflake.ID]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	type row struct {
		OrganizationID snowflake.ID `gorm:"column:organization_id"`
		Total          int64        `gorm:"column:total"`
	}

	var rows []row
	err := r.db.WithContext(ctx).Raw(
		`SELECT organization_id, COUNT(*) AS total
		 FROM leads
		 WHERE organization_id IN ?
		 GROUP BY organization_id`,
		ids,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, item := range rows {
		counts[item.OrganizationID] = item.Total
	}
	return counts, nil
}
