package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service is a bookable product or consultation type
type Service struct {
	ID              uint                `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string              `gorm:"type:varchar(255);not null;index:idx_services_bookable_name,priority:2" json:"name"`
	Description     *string             `gorm:"type:text" json:"description,omitempty"`
	BotBookable     bool                `gorm:"not null;index:idx_services_bookable_name,priority:1" json:"bot_bookable"`
	DurationMinutes int                 `gorm:"not null;index" json:"duration_minutes"`
	Price           decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"price"`
	CreatedAt       time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Service) TableName() string {
	return "services"
}

// Duration returns the configured length of one session
func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}
