package team

import (
	"github.com/smallbiznis/fluxcrm/internal/team/service"
	"go.uber.org/fx"
)

var Module = fx.Module("team.service",
	fx.Provide(service.New),
)
