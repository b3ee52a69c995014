package leadnote

import (
	"github.com/smallbiznis/fluxcrm/internal/leadnote/service"
	"go.uber.org/fx"
)

var Module = fx.Module("leadnote.service",
	fx.Provide(service.New),
)
