// Package seed bootstraps a fresh install: gateway defaults in the
// settings store and a couple of demo products so checkout works out
// of the box.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	gatewaydomain "github.com/openmerchant/paygate/internal/gateway/domain"
	"gorm.io/gorm"
)

var defaultSettings = map[string]string{
	gatewaydomain.SettingEnabled:     gatewaydomain.DefaultEnabled,
	gatewaydomain.SettingTitle:       gatewaydomain.DefaultTitle,
	gatewaydomain.SettingDescription: gatewaydomain.DefaultDescription,
	gatewaydomain.SettingOrderStatus: gatewaydomain.DefaultOrderStatus,
}

type demoProduct struct {
	sku        string
	name       string
	unitAmount int64
	stock      int64
}

var demoProducts = []demoProduct{
	{sku: "DEMO-TEE", name: "Demo T-Shirt", unitAmount: 1900, stock: 100},
	{sku: "DEMO-MUG", name: "Demo Mug", unitAmount: 900, stock: 250},
}

// EnsureDefaults is idempotent. Existing rows are never overwritten,
// so admin edits survive restarts.
func EnsureDefaults(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	now := time.Now().UTC()

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, value := range defaultSettings {
			if err := tx.Exec(
				`INSERT INTO settings (key, value, updated_at)
				 VALUES (?, ?, ?)
				 ON CONFLICT (key) DO NOTHING`,
				key,
				value,
				now,
			).Error; err != nil {
				return err
			}
		}

		for _, product := range demoProducts {
			if err := tx.Exec(
				`INSERT INTO products (id, sku, name, unit_amount, stock_quantity, created_at)
				 VALUES (?, ?, ?, ?, ?, ?)
				 ON CONFLICT (sku) DO NOTHING`,
				node.Generate(),
				product.sku,
				product.name,
				product.unitAmount,
				product.stock,
				now,
			).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
