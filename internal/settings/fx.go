package settings

import (
	"github.com/openmerchant/paygate/internal/settings/repository"
	"github.com/openmerchant/paygate/internal/settings/service"
	"go.uber.org/fx"
)

var Module = fx.Module("settings.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
