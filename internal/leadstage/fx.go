package leadstage

import (
	"github.com/smallbiznis/fluxcrm/internal/leadstage/service"
	"go.uber.org/fx"
)

var Module = fx.Module("leadstage.service",
	fx.Provide(service.New),
)
