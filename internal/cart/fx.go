package cart

import (
	"github.com/openmerchant/paygate/internal/cart/repository"
	"github.com/openmerchant/paygate/internal/cart/service"
	"go.uber.org/fx"
)

var Module = fx.Module("cart.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
