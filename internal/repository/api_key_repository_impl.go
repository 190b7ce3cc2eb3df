package repository

import (
	"errors"
	"time"

	"clinic-scheduler/internal/domain/entity"
	domainRepo "clinic-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type apiKeyRepository struct{}

func NewApiKeyRepository() domainRepo.ApiKeyRepository {
	return &apiKeyRepository{}
}

func (r *apiKeyRepository) Create(db *gorm.DB, key *entity.ApiKey) error {
	return db.Create(key).Error
}

func (r *apiKeyRepository) FindByPrefix(db *gorm.DB, prefix string) (*entity.ApiKey, error) {
	var key entity.ApiKey
	err := db.Where("prefix = ?", prefix).First(&key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &key, nil
}

func (r *apiKeyRepository) FindAll(db *gorm.DB) ([]entity.ApiKey, error) {
	var keys []entity.ApiKey
	err := db.Order("created_at DESC").Find(&keys).Error
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// Deactivate returns affected rows: 0 means unknown or already inactive
func (r *apiKeyRepository) Deactivate(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Model(&entity.ApiKey{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}

// TouchUsage bumps the usage counter in SQL so concurrent requests never lose a count
func (r *apiKeyRepository) TouchUsage(db *gorm.DB, id uuid.UUID, usedAt time.Time) error {
	return db.Model(&entity.ApiKey{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_used_at": usedAt,
			"usage_count":  gorm.Expr("usage_count + ?", 1),
		}).Error
}
