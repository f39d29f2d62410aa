package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/openmerchant/paygate/internal/order/domain"
	"github.com/openmerchant/paygate/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, order *domain.Order, items []domain.OrderItem) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`INSERT INTO orders (id, order_key, customer_name, customer_email, payment_method, status, total_amount, currency, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			order.ID,
			order.OrderKey,
			order.CustomerName,
			order.CustomerEmail,
			order.PaymentMethod,
			order.Status,
			order.TotalAmount,
			order.Currency,
			order.CreatedAt,
			order.UpdatedAt,
		).Error; err != nil {
			return err
		}

		for _, item := range items {
			if err := tx.Exec(
				`INSERT INTO order_items (id, order_id, product_id, name, quantity, unit_amount)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				item.ID,
				item.OrderID,
				item.ProductID,
				item.Name,
				item.Quantity,
				item.UnitAmount,
			).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Order, error) {
	var order domain.Order
	err := db.WithContext(ctx).Raw(
		`SELECT id, order_key, customer_name, customer_email, payment_method, status, total_amount, currency, created_at, updated_at
		 FROM orders WHERE id = ?`,
		id,
	).Scan(&order).Error
	if err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return nil, nil
	}
	return &order, nil
}

func (r *repo) FindByKey(ctx context.Context, db *gorm.DB, key string) (*domain.Order, error) {
	var order domain.Order
	err := db.WithContext(ctx).Raw(
		`SELECT id, order_key, customer_name, customer_email, payment_method, status, total_amount, currency, created_at, updated_at
		 FROM orders WHERE order_key = ?`,
		key,
	).Scan(&order).Error
	if err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return nil, nil
	}
	return &order, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListOrderFilter, page pagination.Pagination) ([]*domain.Order, error) {
	stmt := db.WithContext(ctx).Model(&domain.Order{})
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.PaymentMethod != "" {
		stmt = stmt.Where("payment_method = ?", filter.PaymentMethod)
	}

	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, err
		}
		cursorID, err := snowflake.ParseString(cursor.ID)
		if err != nil {
			return nil, err
		}
		createdAt, err := time.Parse(time.RFC3339, cursor.CreatedAt)
		if err != nil {
			return nil, err
		}
		stmt = stmt.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			createdAt,
			createdAt,
			cursorID,
		)
	}

	limit := page.PageSize
	if limit <= 0 {
		limit = 10
	}

	var orders []*domain.Order
	err := stmt.
		Order("created_at desc, id desc").
		Limit(limit + 1).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status string, now time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`,
		status,
		now,
		id,
	).Error
}

func (r *repo) InsertNote(ctx context.Context, db *gorm.DB, note *domain.OrderNote) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO order_notes (id, order_id, note, created_at)
		 VALUES (?, ?, ?, ?)`,
		note.ID,
		note.OrderID,
		note.Note,
		note.CreatedAt,
	).Error
}

func (r *repo) ListItems(ctx context.Context, db *gorm.DB, orderID snowflake.ID) ([]domain.OrderItem, error) {
	var items []domain.OrderItem
	err := db.WithContext(ctx).Raw(
		`SELECT id, order_id, product_id, name, quantity, unit_amount
		 FROM order_items WHERE order_id = ?
		 ORDER BY id`,
		orderID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindProduct(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Product, error) {
	var product domain.Product
	err := db.WithContext(ctx).Raw(
		`SELECT id, sku, name, unit_amount, stock_quantity, attributes, created_at
		 FROM products WHERE id = ?`,
		id,
	).Scan(&product).Error
	if err != nil {
		return nil, err
	}
	if product.ID == 0 {
		return nil, nil
	}
	return &product, nil
}

func (r *repo) ReduceProductStock(ctx context.Context, db *gorm.DB, productID snowflake.ID, quantity int64) error {
	return db.WithContext(ctx).Exec(
		`UPDATE products
		 SET stock_quantity = CASE WHEN stock_quantity > ? THEN stock_quantity - ? ELSE 0 END
		 WHERE id = ?`,
		quantity,
		quantity,
		productID,
	).Error
}

func (r *repo) GetMeta(ctx context.Context, db *gorm.DB, orderID snowflake.ID, key string) (string, bool, error) {
	var row struct {
		OrderID   snowflake.ID `gorm:"column:order_id"`
		MetaValue string       `gorm:"column:meta_value"`
	}
	err := db.WithContext(ctx).Raw(
		`SELECT order_id, meta_value
		 FROM order_meta WHERE order_id = ? AND meta_key = ?`,
		orderID,
		key,
	).Scan(&row).Error
	if err != nil {
		return "", false, err
	}
	if row.OrderID == 0 {
		return "", false, nil
	}
	return row.MetaValue, true, nil
}

func (r *repo) UpsertMeta(ctx context.Context, db *gorm.DB, orderID snowflake.ID, key, value string, now time.Time) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO order_meta (order_id, meta_key, meta_value, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (order_id, meta_key) DO UPDATE SET meta_value = excluded.meta_value, updated_at = excluded.updated_at`,
		orderID,
		key,
		value,
		now,
	).Error
}
