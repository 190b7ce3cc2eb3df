package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApiKey authenticates bots and external integrations.
// The secret is only stored as a bcrypt hash; Prefix is the public lookup part.
type ApiKey struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"type:varchar(100);not null;index" json:"name"`
	Prefix      string     `gorm:"type:varchar(16);uniqueIndex;not null" json:"prefix"`
	KeyHash     string     `gorm:"type:text;not null" json:"-"`
	IsActive    bool       `gorm:"not null;index" json:"is_active"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	LastUsedAt  *time.Time `gorm:"index" json:"last_used_at,omitempty"`
	UsageCount  int64      `gorm:"not null;default:0" json:"usage_count"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

func (ApiKey) TableName() string {
	return "api_keys"
}

func (k *ApiKey) BeforeCreate(tx *gorm.DB) error {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	return nil
}
