package entity

import "time"

// StatusEvent is one immutable entry of an appointment's status history
type StatusEvent struct {
	ID            uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	AppointmentID uint              `gorm:"not null;index:idx_status_events_appointment_created,priority:1" json:"appointment_id"`
	Status        AppointmentStatus `gorm:"type:varchar(100);not null;index:idx_status_events_status_created,priority:1" json:"status"`
	CreatedAt     time.Time         `gorm:"autoCreateTime;index:idx_status_events_appointment_created,priority:2;index:idx_status_events_status_created,priority:2" json:"created_at"`
}

func (StatusEvent) TableName() string {
	return "status_events"
}
