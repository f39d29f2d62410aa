package service

import (
	"context"
	"strings"
	"time"

	"github.com/openmerchant/paygate/internal/settings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("settings.service"),
		repo: p.Repo,
	}
}

// Get reads a setting fresh from the store. Absent keys and storage
// failures both resolve to def so configuration reads are never fatal.
func (s *Service) Get(ctx context.Context, key, def string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return def
	}

	setting, err := s.repo.Find(ctx, s.db, key)
	if err != nil {
		s.log.Warn("settings read failed, using default", zap.String("key", key), zap.Error(err))
		return def
	}
	if setting == nil {
		return def
	}
	return setting.Value
}

func (s *Service) GetByPrefix(ctx context.Context, prefix string) (map[string]string, error) {
	settings, err := s.repo.FindByPrefix(ctx, s.db, strings.TrimSpace(prefix))
	if err != nil {
		return nil, err
	}

	values := make(map[string]string, len(settings))
	for _, setting := range settings {
		values[setting.Key] = setting.Value
	}
	return values, nil
}

func (s *Service) Put(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.ErrInvalidKey
	}

	return s.repo.Upsert(ctx, s.db, &domain.Setting{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	})
}
