package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	Type  string
	State string
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Insert(ctx context.Context, org *Organization) error
	FindByID(ctx context.Context, id snowflake.ID) (*Organization, error)
	List(ctx context.Context, filter ListFilter) ([]Organization, error)
	Update(ctx context.Context, id snowflake.ID, fields map[string]any) error
	Delete(ctx context.Context, id snowflake.ID) (int64, error)
	// CountLeads returns lead counts keyed by organization id. Organizations
	// without leads are absent from the map.
	CountLeads(ctx context.Context, ids []snowflake.ID) (map[snowflake.ID]int64, error)
}
