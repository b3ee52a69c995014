package orgtype

import (
	"github.com/smallbiznis/fluxcrm/internal/orgtype/service"
	"go.uber.org/fx"
)

var Module = fx.Module("orgtype.service",
	fx.Provide(service.New),
)
