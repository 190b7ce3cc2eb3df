package repository

import (
	"time"

	"clinic-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApiKeyRepository interface {
	Create(db *gorm.DB, key *entity.ApiKey) error
	FindByPrefix(db *gorm.DB, prefix string) (*entity.ApiKey, error)
	FindAll(db *gorm.DB) ([]entity.ApiKey, error)
	Deactivate(db *gorm.DB, id uuid.UUID) (int64, error)
	TouchUsage(db *gorm.DB, id uuid.UUID, usedAt time.Time) error
}
