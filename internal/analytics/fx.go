package analytics

import (
	"github.com/smallbiznis/fluxcrm/internal/analytics/repository"
	"github.com/smallbiznis/fluxcrm/internal/analytics/service"
	"go.uber.org/fx"
)

var Module = fx.Module("analytics.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
