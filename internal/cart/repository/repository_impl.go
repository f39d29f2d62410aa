package repository

import (
	"context"
	"time"

	"github.com/openmerchant/paygate/internal/cart/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindCart(ctx context.Context, db *gorm.DB, token string) (*domain.Cart, error) {
	var cart domain.Cart
	err := db.WithContext(ctx).Raw(
		`SELECT token, created_at, updated_at FROM carts WHERE token = ?`,
		token,
	).Scan(&cart).Error
	if err != nil {
		return nil, err
	}
	if cart.Token == "" {
		return nil, nil
	}
	return &cart, nil
}

func (r *repo) InsertCart(ctx context.Context, db *gorm.DB, cart *domain.Cart) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO carts (token, created_at, updated_at) VALUES (?, ?, ?)`,
		cart.Token,
		cart.CreatedAt,
		cart.UpdatedAt,
	).Error
}

func (r *repo) TouchCart(ctx context.Context, db *gorm.DB, token string, now time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE carts SET updated_at = ? WHERE token = ?`,
		now,
		token,
	).Error
}

func (r *repo) UpsertItem(ctx context.Context, db *gorm.DB, item *domain.CartItem) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO cart_items (id, cart_token, product_id, quantity)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (cart_token, product_id) DO UPDATE SET quantity = cart_items.quantity + excluded.quantity`,
		item.ID,
		item.CartToken,
		item.ProductID,
		item.Quantity,
	).Error
}

func (r *repo) ListItems(ctx context.Context, db *gorm.DB, token string) ([]domain.CartItem, error) {
	var items []domain.CartItem
	err := db.WithContext(ctx).Raw(
		`SELECT id, cart_token, product_id, quantity
		 FROM cart_items WHERE cart_token = ?
		 ORDER BY id`,
		token,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) DeleteItems(ctx context.Context, db *gorm.DB, token string) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM cart_items WHERE cart_token = ?`,
		token,
	).Error
}
