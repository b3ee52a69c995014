package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	leaddomain "github.com/smallbiznis/fluxcrm/internal/lead/domain"
	leadstagedomain "github.com/smallbiznis/fluxcrm/internal/leadstage/domain"
	orgtypedomain "github.com/smallbiznis/fluxcrm/internal/orgtype/domain"
	referencedomain "github.com/smallbiznis/fluxcrm/internal/reference/domain"
	"gorm.io/gorm"
)

// EnsureDefaults seeds the built-in organization types, lead stages, the
// lead code sequence and the Indian states. Existing rows are left alone.
func EnsureDefaults(db *gorm.DB, node *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if node == nil {
		return errors.New("seed id generator is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureOrgTypesTx(ctx, tx, node); err != nil {
			return err
		}
		if err := ensureLeadStagesTx(ctx, tx, node); err != nil {
			return err
		}
		if err := ensureLeadSequenceTx(ctx, tx); err != nil {
			return err
		}
		return ensureIndianStatesTx(ctx, tx)
	})
}

func ensureOrgTypesTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	for _, def := range orgtypedomain.Defaults {
		var existing orgtypedomain.OrganizationType
		err := tx.WithContext(ctx).Where("name = ?", def.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		def.ID = node.Generate()
		def.CreatedAt = time.Now().UTC()
		if err := tx.WithContext(ctx).Create(&def).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureLeadStagesTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	for _, def := range leadstagedomain.Defaults {
		var existing leadstagedomain.LeadStage
		err := tx.WithContext(ctx).Where("name = ?", def.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		def.ID = node.Generate()
		def.CreatedAt = time.Now().UTC()
		if err := tx.WithContext(ctx).Create(&def).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureLeadSequenceTx(ctx context.Context, tx *gorm.DB) error {
	var seq leaddomain.LeadSequence
	err := tx.WithContext(ctx).Where("name = ?", leaddomain.SequenceName).First(&seq).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	seq = leaddomain.LeadSequence{
		Name:      leaddomain.SequenceName,
		UpdatedAt: time.Now().UTC(),
	}
	return tx.WithContext(ctx).Create(&seq).Error
}

func ensureIndianStatesTx(ctx context.Context, tx *gorm.DB) error {
	var count int64
	if err := tx.WithContext(ctx).Model(&referencedomain.IndianState{}).Count(&count).Error; err != nil {
		return err
	}
	if count >= int64(len(referencedomain.IndianStates)) {
		return nil
	}
	for _, state := range referencedomain.IndianStates {
		row := state
		if row.CreatedAt.IsZero() {
			row.CreatedAt = time.Now().UTC()
		}
		if err := tx.WithContext(ctx).
			Where(referencedomain.IndianState{Code: row.Code}).
			FirstOrCreate(&row).Error; err != nil {
			return err
		}
	}
	return nil
}
