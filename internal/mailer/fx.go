package mailer

import (
	orderdomain "github.com/openmerchant/paygate/internal/order/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("mailer",
	fx.Provide(
		fx.Annotate(New, fx.As(new(orderdomain.StatusNotifier))),
	),
)
