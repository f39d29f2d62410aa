package repository

import (
	"context"

	"github.com/openmerchant/paygate/internal/settings/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, key string) (*domain.Setting, error) {
	var setting domain.Setting
	err := db.WithContext(ctx).Raw(
		`SELECT key, value, updated_at
		 FROM settings WHERE key = ?`,
		key,
	).Scan(&setting).Error
	if err != nil {
		return nil, err
	}
	if setting.Key == "" {
		return nil, nil
	}
	return &setting, nil
}

func (r *repo) FindByPrefix(ctx context.Context, db *gorm.DB, prefix string) ([]domain.Setting, error) {
	var settings []domain.Setting
	err := db.WithContext(ctx).Raw(
		`SELECT key, value, updated_at
		 FROM settings WHERE key LIKE ?
		 ORDER BY key`,
		prefix+"%",
	).Scan(&settings).Error
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, setting *domain.Setting) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO settings (key, value, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		setting.Key,
		setting.Value,
		setting.UpdatedAt,
	).Error
}
