package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/fluxcrm/internal/clock"
	"github.com/smallbiznis/fluxcrm/internal/config"
	"github.com/smallbiznis/fluxcrm/internal/migration"
	"github.com/smallbiznis/fluxcrm/internal/observability"
	"github.com/smallbiznis/fluxcrm/internal/server"
	"github.com/smallbiznis/fluxcrm/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.NodeID)
}
