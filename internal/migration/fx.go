package migration

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/fluxcrm/internal/config"
	"github.com/smallbiznis/fluxcrm/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, node *snowflake.Node, log *zap.Logger) error {
		if err := Apply(conn, cfg.DBType); err != nil {
			return err
		}
		log.Info("schema up to date", zap.String("type", cfg.DBType))

		if !cfg.DBSeedDefaults {
			return nil
		}
		return seed.EnsureDefaults(conn, node)
	}),
)
