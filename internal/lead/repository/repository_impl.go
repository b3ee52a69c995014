package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/fluxcrm/internal/lead/domain"
	"gorm.io/gorm"
)

// childTables hold rows keyed by lead_id that go away with their lead.
var childTables = []string{"milestones", "documents", "lead_notes"}

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, lead *domain.Lead) error {
	return db.WithContext(ctx).Create(lead).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Lead, error) {
	var lead domain.Lead
	err := db.WithContext(ctx).Where("id = ?", id).First(&lead).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListLeadFilter) ([]domain.Lead, error) {
	stmt := db.WithContext(ctx).Model(&domain.Lead{})
	if filter.Stage != "" {
		stmt = stmt.Where("stage = ?", filter.Stage)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.OrganizationID != 0 {
		stmt = stmt.Where("organization_id = ?", filter.OrganizationID)
	}
	if filter.SalesOwner != "" {
		stmt = stmt.Where("sales_owner = ?", filter.SalesOwner)
	}

	var leads []domain.Lead
	if err := stmt.Order("created_at DESC, id DESC").Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) error {
	return db.WithContext(ctx).
		Model(&domain.Lead{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repo) Delete(ctx context.Context, conn *gorm.DB, id snowflake.ID) (int64, error) {
	var affected int64
	err := conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range childTables {
			if err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE lead_id = ?", table), id).Error; err != nil {
				return fmt.Errorf("delete %s: %w", table, err)
			}
		}
		res := tx.Where("id = ?", id).Delete(&domain.Lead{})
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	return affected, err
}

func (r *repo) NextSequence(ctx context.Context, conn *gorm.DB, name string) (int64, error) {
	res := conn.WithContext(ctx).Exec(
		`UPDATE lead_sequences SET last_number = last_number + 1, updated_at = CURRENT_TIMESTAMP WHERE name = ?`,
		name,
	)
	if res.Error != nil {
		return 0, res.Error
	}

	if res.RowsAffected == 0 {
		// unseeded database: start the series at 1
		if err := conn.WithContext(ctx).Create(&domain.LeadSequence{Name: name, LastNumber: 1}).Error; err != nil {
			return 0, fmt.Errorf("create lead sequence: %w", err)
		}
		return 1, nil
	}

	var seq domain.LeadSequence
	if err := conn.WithContext(ctx).Where("name = ?", name).First(&seq).Error; err != nil {
		return 0, err
	}
	return seq.LastNumber, nil
}

func (r *repo) FindOrganizations(ctx context.Context, db *gorm.DB, ids []snowflake.ID) (map[snowflake.ID]domain.OrganizationRef, error) {
	refs := make(map[snowflake.ID]domain.OrganizationRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}

	var rows []domain.OrganizationRef
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, type FROM organizations WHERE id IN ?`,
		ids,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		refs[row.ID] = row
	}
	return refs, nil
}
