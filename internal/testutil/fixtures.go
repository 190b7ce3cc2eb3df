package testutil

import (
	"testing"
	"time"

	"clinic-scheduler/internal/domain/entity"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateClient persists a client person with its profile
func CreateClient(t *testing.T, db *gorm.DB) *entity.Person {
	t.Helper()

	person := fakePerson(entity.RoleClient)
	require.NoError(t, db.Omit(clause.Associations).Create(person).Error)

	age := gofakeit.Number(entity.MinClientAge, entity.MaxClientAge)
	person.ClientProfile = &entity.ClientProfile{PersonID: person.ID, Age: &age}
	require.NoError(t, db.Omit(clause.Associations).Create(person.ClientProfile).Error)
	return person
}

// CreateProfessional persists a professional person with its profile
func CreateProfessional(t *testing.T, db *gorm.DB) *entity.Person {
	t.Helper()

	person := fakePerson(entity.RoleProfessional)
	require.NoError(t, db.Omit(clause.Associations).Create(person).Error)

	person.ProfessionalProfile = &entity.ProfessionalProfile{
		PersonID:        person.ID,
		MessagingHandle: gofakeit.Numerify("300#######"),
	}
	require.NoError(t, db.Create(person.ProfessionalProfile).Error)
	return person
}

// CreateService persists a bot-bookable service
func CreateService(t *testing.T, db *gorm.DB, minutes int) *entity.Service {
	t.Helper()

	service := &entity.Service{
		Name:            gofakeit.JobTitle(),
		BotBookable:     true,
		DurationMinutes: minutes,
	}
	require.NoError(t, db.Create(service).Error)
	return service
}

// Assign adds a ServiceProvider edge
func Assign(t *testing.T, db *gorm.DB, serviceID, professionalID uint) {
	t.Helper()

	edge := &entity.ServiceProvider{ServiceID: serviceID, ProfessionalID: professionalID}
	require.NoError(t, db.Omit(clause.Associations).Create(edge).Error)
}

// NewAppointment persists an appointment row without any status event. Callers seed
// the history themselves, usually through a StatusRecorder with their own clock.
func NewAppointment(t *testing.T, db *gorm.DB, client *entity.Person, service *entity.Service, professional *entity.Person, start time.Time) *entity.Appointment {
	t.Helper()

	appointment := &entity.Appointment{
		ClientID:  client.ID,
		ServiceID: service.ID,
		StartAt:   start.UTC(),
		EndAt:     start.Add(service.Duration()).UTC(),
	}
	if professional != nil {
		appointment.ProfessionalID = &professional.ID
	}
	require.NoError(t, db.Omit(clause.Associations).Create(appointment).Error)
	return appointment
}

// CreateAppointment persists an appointment together with its seed status event
func CreateAppointment(t *testing.T, db *gorm.DB, client *entity.Person, service *entity.Service, professional *entity.Person, start time.Time, status entity.AppointmentStatus) *entity.Appointment {
	t.Helper()

	appointment := NewAppointment(t, db, client, service, professional, start)

	event := &entity.StatusEvent{AppointmentID: appointment.ID, Status: status}
	require.NoError(t, db.Create(event).Error)
	require.NoError(t, db.Model(appointment).Update("current_status_event_id", event.ID).Error)
	appointment.CurrentStatusEventID = &event.ID
	appointment.CurrentStatus = event
	return appointment
}

func fakePerson(role entity.Role) *entity.Person {
	email := gofakeit.Email()
	return &entity.Person{
		GivenNames:     gofakeit.FirstName(),
		FamilyNames:    gofakeit.LastName(),
		DocumentType:   entity.DocumentNationalID,
		DocumentNumber: gofakeit.Numerify("##########"),
		Email:          &email,
		Phone:          gofakeit.Numerify("300 ### ####"),
		Role:           role,
	}
}
