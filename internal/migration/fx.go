package migration

import (
	cartdomain "github.com/openmerchant/paygate/internal/cart/domain"
	"github.com/openmerchant/paygate/internal/config"
	orderdomain "github.com/openmerchant/paygate/internal/order/domain"
	"github.com/openmerchant/paygate/internal/seed"
	settingsdomain "github.com/openmerchant/paygate/internal/settings/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// golang-migrate is wired for postgres; other dialects get
			// the schema straight from the models.
			if err := conn.AutoMigrate(
				&orderdomain.Order{},
				&orderdomain.OrderItem{},
				&orderdomain.OrderNote{},
				&orderdomain.Product{},
				&cartdomain.Cart{},
				&cartdomain.CartItem{},
				&settingsdomain.Setting{},
			); err != nil {
				return err
			}
			if err := ensureMetaTable(conn); err != nil {
				return err
			}
		}

		return seed.EnsureDefaults(conn)
	}),
)

// order_meta has a composite primary key and no model struct, so it is
// created directly.
func ensureMetaTable(conn *gorm.DB) error {
	return conn.Exec(`CREATE TABLE IF NOT EXISTS order_meta (
		order_id BIGINT NOT NULL,
		meta_key TEXT NOT NULL,
		meta_value TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (order_id, meta_key)
	)`).Error
}
