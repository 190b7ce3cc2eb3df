package entity

import (
	"time"

	"gorm.io/datatypes"
)

// ConversationState is the bot's conversation payload for one messaging handle.
// The payload is opaque to the scheduling core.
type ConversationState struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Handle    string         `gorm:"type:varchar(20);uniqueIndex;not null" json:"handle"`
	Payload   datatypes.JSON `gorm:"not null" json:"payload"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ConversationState) TableName() string {
	return "conversation_states"
}
