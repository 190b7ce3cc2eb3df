package database

import "clinic-scheduler/internal/domain/entity"

// Models lists every persisted entity in dependency order
func Models() []any {
	return []any{
		&entity.ConversationState{},
		&entity.Person{},
		&entity.ClientProfile{},
		&entity.ProfessionalProfile{},
		&entity.Service{},
		&entity.ServiceProvider{},
		&entity.Appointment{},
		&entity.StatusEvent{},
		&entity.ApiKey{},
		&entity.AuditLog{},
	}
}
