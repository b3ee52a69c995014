package auth

import (
	"github.com/smallbiznis/fluxcrm/internal/auth/repository"
	"github.com/smallbiznis/fluxcrm/internal/auth/service"
	"github.com/smallbiznis/fluxcrm/internal/auth/token"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.Provide),
	fx.Provide(token.New),
	fx.Provide(service.New),
)
