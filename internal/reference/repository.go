package reference

import (
	"context"

	"github.com/smallbiznis/fluxcrm/internal/reference/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) ListIndianStates(ctx context.Context) ([]domain.IndianState, error) {
	type row struct {
		Code           string `gorm:"column:code"`
		Name           string `gorm:"column:name"`
		UnionTerritory bool   `gorm:"column:union_territory"`
	}

	var rows []row
	err := r.db.WithContext(ctx).
		Raw(`SELECT code, name, union_territory FROM indian_states ORDER BY name`).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	states := make([]domain.IndianState, 0, len(rows))
	for _, item := range rows {
		states = append(states, domain.IndianState{
			Code:           item.Code,
			Name:           item.Name,
			UnionTerritory: item.UnionTerritory,
		})
	}

	return states, nil
}
