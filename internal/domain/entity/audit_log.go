package entity

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog represents a system audit trail entry
type AuditLog struct {
	ID        int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	Actor     string            `gorm:"type:varchar(150);index" json:"actor,omitempty"`
	Action    string            `gorm:"type:varchar(100);not null;index" json:"action"`
	Metadata  datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// Common audit actions
const (
	AuditActionClientRegister       = "client.register"
	AuditActionClientUpdate         = "client.update"
	AuditActionProfessionalRegister = "professional.register"
	AuditActionServiceCreate        = "service.create"
	AuditActionServiceUpdate        = "service.update"
	AuditActionProviderAssign       = "service_provider.assign"
	AuditActionProviderUnassign     = "service_provider.unassign"
	AuditActionAppointmentCreate    = "appointment.create"
	AuditActionAppointmentUpdate    = "appointment.update"
	AuditActionAppointmentStatus    = "appointment.status_change"
	AuditActionConversationDelete   = "conversation_state.delete"
	AuditActionApiKeyIssue          = "api_key.issue"
	AuditActionApiKeyRevoke         = "api_key.revoke"
)
