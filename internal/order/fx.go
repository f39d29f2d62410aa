package order

import (
	"github.com/openmerchant/paygate/internal/order/repository"
	"github.com/openmerchant/paygate/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
