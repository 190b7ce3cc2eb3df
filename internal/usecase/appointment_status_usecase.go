package usecase

import (
	"context"

	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"
	"clinic-scheduler/internal/domain/scheduling"
	"clinic-scheduler/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AppointmentStatusUsecase moves appointments through their lifecycle.
// Any status may follow any other; only a repeated cancellation is refused.
type AppointmentStatusUsecase interface {
	Transition(ctx context.Context, id uint, req *dto.TransitionRequest) (*dto.StatusEventResponse, error)
	CurrentStatus(ctx context.Context, id uint) (*dto.CurrentStatusResponse, error)
}

type appointmentStatusUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	recorder        service.StatusRecorder
	auditService    service.AuditService
}

func NewAppointmentStatusUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	recorder service.StatusRecorder,
	auditService service.AuditService,
) AppointmentStatusUsecase {
	return &appointmentStatusUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		recorder:        recorder,
		auditService:    auditService,
	}
}

// Transition appends a status event under a row lock so concurrent transitions on the
// same appointment serialize and the current pointer never refers to a stale event.
func (u *appointmentStatusUsecase) Transition(ctx context.Context, id uint, req *dto.TransitionRequest) (*dto.StatusEventResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByIDForUpdate(tx, id)
	if err != nil {
		u.log.Warnf("Failed to lock appointment %d: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, scheduling.NewNotFound("appointment", id)
	}

	status := entity.AppointmentStatus(req.Status)
	if err := scheduling.Aggregate(scheduling.ValidateStatus(status)); err != nil {
		return nil, err
	}

	previous := appointment.Status()
	if status == entity.StatusCancelled && previous == entity.StatusCancelled {
		return nil, &scheduling.Violation{Kind: scheduling.ErrAlreadyCancelled, Field: "status", Value: status}
	}

	event, err := u.recorder.Record(ctx, tx, appointment, status, req.Notes)
	if err != nil {
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, entity.AuditActionAppointmentStatus, "appointment", appointment.ID,
		map[string]any{"status": previous},
		map[string]any{"status": status, "status_event_id": event.ID},
	); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Appointment %d moved from %s to %s", appointment.ID, previous, status)
	return converter.StatusEventToResponse(event), nil
}

// CurrentStatus reports "unset" for appointments with no event yet
func (u *appointmentStatusUsecase) CurrentStatus(ctx context.Context, id uint) (*dto.CurrentStatusResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %d: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, scheduling.NewNotFound("appointment", id)
	}

	return &dto.CurrentStatusResponse{
		AppointmentID: appointment.ID,
		Status:        string(appointment.Status()),
	}, nil
}
