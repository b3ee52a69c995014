package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListLeadFilter struct {
	Stage          string
	Status         string
	OrganizationID snowflake.ID
	SalesOwner     string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, lead *Lead) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Lead, error)
	List(ctx context.Context, db *gorm.DB, filter ListLeadFilter) ([]Lead, error)
	Update(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) error
	// Delete removes the lead together with its milestones, documents and notes.
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
	// NextSequence increments and returns the named counter. It must run
	// inside the transaction that consumes the number.
	NextSequence(ctx context.Context, db *gorm.DB, name string) (int64, error)
	FindOrganizations(ctx context.Context, db *gorm.DB, ids []snowflake.ID) (map[snowflake.ID]OrganizationRef, error)
}
