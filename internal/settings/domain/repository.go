package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Find(ctx context.Context, db *gorm.DB, key string) (*Setting, error)
	FindByPrefix(ctx context.Context, db *gorm.DB, prefix string) ([]Setting, error)
	Upsert(ctx context.Context, db *gorm.DB, setting *Setting) error
}
