package salesflow

import (
	"github.com/smallbiznis/fluxcrm/internal/salesflow/service"
	"go.uber.org/fx"
)

var Module = fx.Module("salesflow.service",
	fx.Provide(service.New),
)
