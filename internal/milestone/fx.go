package milestone

import (
	"github.com/smallbiznis/fluxcrm/internal/milestone/service"
	"go.uber.org/fx"
)

var Module = fx.Module("milestone.service",
	fx.Provide(service.New),
)
