package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	FindCart(ctx context.Context, db *gorm.DB, token string) (*Cart, error)
	InsertCart(ctx context.Context, db *gorm.DB, cart *Cart) error
	TouchCart(ctx context.Context, db *gorm.DB, token string, now time.Time) error
	UpsertItem(ctx context.Context, db *gorm.DB, item *CartItem) error
	ListItems(ctx context.Context, db *gorm.DB, token string) ([]CartItem, error)
	DeleteItems(ctx context.Context, db *gorm.DB, token string) error
}
