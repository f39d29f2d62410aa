package gateway

import (
	"github.com/openmerchant/paygate/internal/checkout/registry"
	"github.com/openmerchant/paygate/internal/config"
	"github.com/openmerchant/paygate/internal/gateway/service"
	"github.com/openmerchant/paygate/internal/gateway/vault"
	"go.uber.org/fx"
)

// Module builds the custom gateway and registers it with the checkout
// registry once all of its dependencies exist.
var Module = fx.Module("gateway.custom",
	fx.Provide(func(cfg config.Config) *vault.Vault {
		return vault.New(cfg.CaptureSecret)
	}),
	fx.Provide(service.New),
	fx.Invoke(func(r *registry.Registry, g *service.Gateway) error {
		return r.Register(g)
	}),
)
