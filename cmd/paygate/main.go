package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/openmerchant/paygate/internal/cart"
	"github.com/openmerchant/paygate/internal/checkout"
	"github.com/openmerchant/paygate/internal/config"
	"github.com/openmerchant/paygate/internal/gateway"
	"github.com/openmerchant/paygate/internal/logger"
	"github.com/openmerchant/paygate/internal/mailer"
	"github.com/openmerchant/paygate/internal/metrics"
	"github.com/openmerchant/paygate/internal/migration"
	"github.com/openmerchant/paygate/internal/order"
	"github.com/openmerchant/paygate/internal/providers/email"
	"github.com/openmerchant/paygate/internal/server"
	"github.com/openmerchant/paygate/internal/settings"
	"github.com/openmerchant/paygate/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		metrics.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		// Functional domains
		settings.Module,
		order.Module,
		cart.Module,
		checkout.Module,
		gateway.Module,
		email.Module,
		mailer.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
