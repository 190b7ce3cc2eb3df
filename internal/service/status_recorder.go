package service

import (
	"context"
	"fmt"
	"time"

	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// notesStampLayout renders the header written above each appended note
const notesStampLayout = "2006-01-02 15:04"

// StatusRecorder is the single write path for appointment status: it appends a
// StatusEvent and points the appointment at it in the caller's transaction.
type StatusRecorder interface {
	Record(ctx context.Context, tx *gorm.DB, appointment *entity.Appointment, status entity.AppointmentStatus, notes string) (*entity.StatusEvent, error)
}

type statusRecorder struct {
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	statusEventRepo repository.StatusEventRepository
	location        *time.Location
	now             func() time.Time
}

// NewStatusRecorder creates a recorder stamping notes in loc. A nil now uses time.Now.
func NewStatusRecorder(
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	statusEventRepo repository.StatusEventRepository,
	loc *time.Location,
	now func() time.Time,
) StatusRecorder {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &statusRecorder{
		log:             log,
		appointmentRepo: appointmentRepo,
		statusEventRepo: statusEventRepo,
		location:        loc,
		now:             now,
	}
}

// Record appends the event, swaps the current pointer, and appends notes when given.
// The appointment value is updated in place to match what was written.
func (s *statusRecorder) Record(ctx context.Context, tx *gorm.DB, appointment *entity.Appointment, status entity.AppointmentStatus, notes string) (*entity.StatusEvent, error) {
	event := &entity.StatusEvent{
		AppointmentID: appointment.ID,
		Status:        status,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.statusEventRepo.Create(tx, event); err != nil {
		s.log.Warnf("Failed to create status event for appointment %d: %+v", appointment.ID, err)
		return nil, err
	}

	merged := AppendNotes(appointment.Notes, notes, event.CreatedAt.In(s.location))
	if err := s.appointmentRepo.UpdateCurrentStatus(tx, appointment.ID, event.ID, merged); err != nil {
		s.log.Warnf("Failed to point appointment %d at status event %d: %+v", appointment.ID, event.ID, err)
		return nil, err
	}

	appointment.CurrentStatusEventID = &event.ID
	appointment.CurrentStatus = event
	appointment.Notes = merged
	return event, nil
}

// AppendNotes adds a timestamped block to existing notes without touching prior text.
// Empty additions leave existing notes unchanged.
func AppendNotes(existing, addition string, at time.Time) string {
	if addition == "" {
		return existing
	}
	block := fmt.Sprintf("--- %s ---\n%s", at.Format(notesStampLayout), addition)
	if existing == "" {
		return block
	}
	return existing + "\n" + block
}
