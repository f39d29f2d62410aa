package checkout

import (
	"github.com/openmerchant/paygate/internal/checkout/registry"
	"github.com/openmerchant/paygate/internal/checkout/service"
	"go.uber.org/fx"
)

var Module = fx.Module("checkout.service",
	fx.Provide(registry.New),
	fx.Provide(service.New),
)
