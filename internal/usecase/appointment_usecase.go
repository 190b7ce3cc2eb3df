package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"
	"clinic-scheduler/internal/domain/scheduling"
	"clinic-scheduler/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// AppointmentUsecase is the appointment ledger: booking, rescheduling and reads
type AppointmentUsecase interface {
	Create(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.AppointmentResponse, error)
	List(ctx context.Context, query *dto.AppointmentQuery) (*dto.AppointmentListResponse, error)
	Today(ctx context.Context, query *dto.AppointmentQuery) (*dto.AppointmentListResponse, error)
	History(ctx context.Context, id uint) (*dto.StatusHistoryResponse, error)
}

// AppointmentDeps groups the collaborators of the appointment usecases
type AppointmentDeps struct {
	DB              *gorm.DB
	Log             *logrus.Logger
	PersonRepo      repository.PersonRepository
	ServiceRepo     repository.ServiceRepository
	ProviderRepo    repository.ServiceProviderRepository
	AppointmentRepo repository.AppointmentRepository
	StatusEventRepo repository.StatusEventRepository
	Recorder        service.StatusRecorder
	AuditService    service.AuditService
	Policy          scheduling.OverlapPolicy
	Locker          service.BookingLocker
	// Location interprets calendar dates; defaults to UTC
	Location *time.Location
	// Now defaults to time.Now
	Now func() time.Time
}

type appointmentUsecase struct {
	AppointmentDeps
}

func NewAppointmentUsecase(deps AppointmentDeps) AppointmentUsecase {
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Policy == nil {
		deps.Policy = scheduling.AllowOverlaps{}
	}
	return &appointmentUsecase{AppointmentDeps: deps}
}

// Create books an appointment and seeds its first status event in one transaction.
//
// Flow:
// 1. Resolve client, service and professional (first missing one is NotFound)
// 2. Run every precondition and report all failures together
// 3. Apply the overlap policy under the professional's booking lock when enforced
// 4. Insert appointment, seed "scheduled" event, point at it, audit, commit
func (u *appointmentUsecase) Create(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if req.ProfessionalID == nil || !u.Policy.Enforced() {
		return u.create(ctx, req)
	}

	var response *dto.AppointmentResponse
	err := u.Locker.WithProfessionalLock(ctx, *req.ProfessionalID, func(ctx context.Context) error {
		var err error
		response, err = u.create(ctx, req)
		return err
	})
	return response, err
}

func (u *appointmentUsecase) create(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	tx := u.DB.WithContext(ctx).Begin()
	defer tx.Rollback()

	client, err := u.findPerson(tx, "client", req.ClientID)
	if err != nil {
		return nil, err
	}
	svc, err := u.findService(tx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	checks := []scheduling.Check{
		func() error { return scheduling.ValidateTimeWindow(req.StartAt, req.EndAt) },
		func() error { return scheduling.ValidateRole("client_id", client, entity.RoleClient) },
	}

	if req.ProfessionalID != nil {
		professional, err := u.findPerson(tx, "professional", *req.ProfessionalID)
		if err != nil {
			return nil, err
		}
		eligibility, err := u.eligibilityOf(tx, professional.ID)
		if err != nil {
			return nil, err
		}
		checks = append(checks,
			func() error { return scheduling.ValidateRole("professional_id", professional, entity.RoleProfessional) },
			func() error { return scheduling.ValidateEligibility(eligibility, svc.ID, professional.ID) },
		)
	}

	verr := scheduling.Validate(checks...)
	if req.ProfessionalID != nil {
		overlapErr, err := u.checkOverlap(tx, *req.ProfessionalID, req.StartAt, req.EndAt, 0)
		if err != nil {
			return nil, err
		}
		verr = scheduling.Aggregate(verr, overlapErr)
	}
	if verr != nil {
		u.Log.Infof("Rejected appointment for client %d: %v", req.ClientID, verr)
		return nil, verr
	}

	appointment := &entity.Appointment{
		ClientID:         client.ID,
		ServiceID:        svc.ID,
		ProfessionalID:   req.ProfessionalID,
		StartAt:          req.StartAt.UTC(),
		EndAt:            req.EndAt.UTC(),
		CalendarEventID:  trimOptional(req.CalendarEventID),
		CalendarEventURL: trimOptional(req.CalendarEventURL),
		Notes:            req.Notes,
	}
	if err := u.AppointmentRepo.Create(tx, appointment); err != nil {
		u.Log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	if _, err := u.Recorder.Record(ctx, tx, appointment, entity.StatusScheduled, ""); err != nil {
		return nil, err
	}

	if err := u.AuditService.LogCreate(ctx, tx, entity.AuditActionAppointmentCreate, "appointment", appointment.ID, converter.AppointmentToResponse(appointment)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.Log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.Log.Infof("Appointment created: id=%d, client=%d, service=%d", appointment.ID, appointment.ClientID, appointment.ServiceID)
	return u.reload(ctx, appointment), nil
}

// errAssignmentMoved means the professional changed between the lock lookup and the row lock
var errAssignmentMoved = errors.New("appointment professional changed before lock")

const maxUpdateAttempts = 3

// Update edits scheduling fields and re-validates only what changed.
// It never appends a status event.
func (u *appointmentUsecase) Update(ctx context.Context, id uint, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if !u.Policy.Enforced() || req.UnassignProfessional {
		return u.update(ctx, id, req, nil)
	}
	if req.ProfessionalID != nil {
		return u.updateLocked(ctx, id, req, *req.ProfessionalID, nil)
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		current, err := u.AppointmentRepo.FindByID(u.DB.WithContext(ctx), id)
		if err != nil {
			u.Log.Warnf("Failed to find appointment %d: %+v", id, err)
			return nil, err
		}
		if current == nil {
			return nil, scheduling.NewNotFound("appointment", id)
		}

		// the professional was read outside the row lock; update re-checks it under the lock
		guard := sameProfessionalGuard(current.ProfessionalID)
		var response *dto.AppointmentResponse
		if current.ProfessionalID == nil {
			response, err = u.update(ctx, id, req, guard)
		} else {
			response, err = u.updateLocked(ctx, id, req, *current.ProfessionalID, guard)
		}
		if !errors.Is(err, errAssignmentMoved) {
			return response, err
		}
		u.Log.Infof("Professional of appointment %d changed before lock, retrying", id)
	}
	return nil, service.ErrLockNotAcquired
}

func (u *appointmentUsecase) updateLocked(ctx context.Context, id uint, req *dto.UpdateAppointmentRequest, professionalID uint, guard func(*entity.Appointment) error) (*dto.AppointmentResponse, error) {
	var response *dto.AppointmentResponse
	err := u.Locker.WithProfessionalLock(ctx, professionalID, func(ctx context.Context) error {
		var err error
		response, err = u.update(ctx, id, req, guard)
		return err
	})
	return response, err
}

// sameProfessionalGuard rejects a locked row whose professional differs from expected
func sameProfessionalGuard(expected *uint) func(*entity.Appointment) error {
	return func(appointment *entity.Appointment) error {
		got := appointment.ProfessionalID
		if (got == nil) != (expected == nil) || (got != nil && *got != *expected) {
			return errAssignmentMoved
		}
		return nil
	}
}

func (u *appointmentUsecase) update(ctx context.Context, id uint, req *dto.UpdateAppointmentRequest, guard func(*entity.Appointment) error) (*dto.AppointmentResponse, error) {
	tx := u.DB.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.AppointmentRepo.FindByIDForUpdate(tx, id)
	if err != nil {
		u.Log.Warnf("Failed to lock appointment %d: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, scheduling.NewNotFound("appointment", id)
	}
	if guard != nil {
		if err := guard(appointment); err != nil {
			return nil, err
		}
	}

	oldValue := converter.AppointmentToResponse(appointment)

	clientChanged := req.ClientID != nil && *req.ClientID != appointment.ClientID
	serviceChanged := req.ServiceID != nil && *req.ServiceID != appointment.ServiceID
	windowChanged := req.StartAt != nil || req.EndAt != nil
	professionalChanged := false

	if clientChanged {
		appointment.ClientID = *req.ClientID
	}
	if serviceChanged {
		appointment.ServiceID = *req.ServiceID
	}
	switch {
	case req.UnassignProfessional:
		professionalChanged = appointment.ProfessionalID != nil
		appointment.ProfessionalID = nil
	case req.ProfessionalID != nil:
		professionalChanged = appointment.ProfessionalID == nil || *appointment.ProfessionalID != *req.ProfessionalID
		appointment.ProfessionalID = req.ProfessionalID
	}
	if req.StartAt != nil {
		appointment.StartAt = req.StartAt.UTC()
	}
	if req.EndAt != nil {
		appointment.EndAt = req.EndAt.UTC()
	}
	if req.CalendarEventID != nil {
		appointment.CalendarEventID = trimOptional(req.CalendarEventID)
	}
	if req.CalendarEventURL != nil {
		appointment.CalendarEventURL = trimOptional(req.CalendarEventURL)
	}

	var checks []scheduling.Check

	if windowChanged {
		start, end := appointment.StartAt, appointment.EndAt
		checks = append(checks, func() error { return scheduling.ValidateTimeWindow(start, end) })
	}
	if clientChanged {
		client, err := u.findPerson(tx, "client", appointment.ClientID)
		if err != nil {
			return nil, err
		}
		checks = append(checks, func() error { return scheduling.ValidateRole("client_id", client, entity.RoleClient) })
	}
	if serviceChanged {
		if _, err := u.findService(tx, appointment.ServiceID); err != nil {
			return nil, err
		}
	}
	if appointment.ProfessionalID != nil && (professionalChanged || serviceChanged) {
		professionalID, serviceID := *appointment.ProfessionalID, appointment.ServiceID
		if professionalChanged {
			professional, err := u.findPerson(tx, "professional", professionalID)
			if err != nil {
				return nil, err
			}
			checks = append(checks, func() error { return scheduling.ValidateRole("professional_id", professional, entity.RoleProfessional) })
		}
		eligibility, err := u.eligibilityOf(tx, professionalID)
		if err != nil {
			return nil, err
		}
		checks = append(checks, func() error { return scheduling.ValidateEligibility(eligibility, serviceID, professionalID) })
	}

	verr := scheduling.Validate(checks...)
	if appointment.ProfessionalID != nil && (windowChanged || professionalChanged) {
		overlapErr, err := u.checkOverlap(tx, *appointment.ProfessionalID, appointment.StartAt, appointment.EndAt, appointment.ID)
		if err != nil {
			return nil, err
		}
		verr = scheduling.Aggregate(verr, overlapErr)
	}
	if verr != nil {
		u.Log.Infof("Rejected update of appointment %d: %v", id, verr)
		return nil, verr
	}

	if err := u.AppointmentRepo.Update(tx, appointment); err != nil {
		u.Log.Warnf("Failed to update appointment %d: %+v", id, err)
		return nil, err
	}

	newValue := converter.AppointmentToResponse(appointment)
	if err := u.AuditService.LogUpdate(ctx, tx, entity.AuditActionAppointmentUpdate, "appointment", appointment.ID, oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.Log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return u.reload(ctx, appointment), nil
}

func (u *appointmentUsecase) GetByID(ctx context.Context, id uint) (*dto.AppointmentResponse, error) {
	appointment, err := u.AppointmentRepo.FindByID(u.DB.WithContext(ctx), id)
	if err != nil {
		u.Log.Warnf("Failed to find appointment %d: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, scheduling.NewNotFound("appointment", id)
	}

	return converter.AppointmentToResponse(appointment), nil
}

// List filters by calendar date range, participants and current status, ordered by start
func (u *appointmentUsecase) List(ctx context.Context, query *dto.AppointmentQuery) (*dto.AppointmentListResponse, error) {
	filter, err := u.buildFilter(query)
	if err != nil {
		return nil, err
	}

	appointments, err := u.AppointmentRepo.FindAll(u.DB.WithContext(ctx), filter)
	if err != nil {
		u.Log.Warnf("Failed to find appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// Today lists appointments starting on the current calendar date in the clinic's zone
func (u *appointmentUsecase) Today(ctx context.Context, query *dto.AppointmentQuery) (*dto.AppointmentListResponse, error) {
	today := u.Now().In(u.Location).Format(dateLayout)

	scoped := dto.AppointmentQuery{FromDate: today, ToDate: today}
	if query != nil {
		scoped.ClientID = query.ClientID
		scoped.ProfessionalID = query.ProfessionalID
		scoped.ServiceID = query.ServiceID
		scoped.Status = query.Status
	}
	return u.List(ctx, &scoped)
}

// History returns every status event of the appointment, oldest first
func (u *appointmentUsecase) History(ctx context.Context, id uint) (*dto.StatusHistoryResponse, error) {
	db := u.DB.WithContext(ctx)

	appointment, err := u.AppointmentRepo.FindByID(db, id)
	if err != nil {
		u.Log.Warnf("Failed to find appointment %d: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, scheduling.NewNotFound("appointment", id)
	}

	events, err := u.StatusEventRepo.FindByAppointment(db, id)
	if err != nil {
		u.Log.Warnf("Failed to find history of appointment %d: %+v", id, err)
		return nil, err
	}

	return &dto.StatusHistoryResponse{
		AppointmentID: id,
		Events:        converter.StatusEventsToResponses(events),
		Total:         len(events),
	}, nil
}

// buildFilter turns inclusive calendar dates into a half-open UTC range
// [from 00:00, to+1 00:00) in the configured location.
func (u *appointmentUsecase) buildFilter(query *dto.AppointmentQuery) (entity.AppointmentFilter, error) {
	var filter entity.AppointmentFilter
	if query == nil {
		return filter, nil
	}

	var from, to time.Time
	var err error
	if query.FromDate != "" {
		if from, err = time.ParseInLocation(dateLayout, query.FromDate, u.Location); err != nil {
			return filter, fmt.Errorf("%w: %q", ErrInvalidDate, query.FromDate)
		}
		startFrom := from.UTC()
		filter.StartFrom = &startFrom
	}
	if query.ToDate != "" {
		if to, err = time.ParseInLocation(dateLayout, query.ToDate, u.Location); err != nil {
			return filter, fmt.Errorf("%w: %q", ErrInvalidDate, query.ToDate)
		}
		startBefore := to.AddDate(0, 0, 1).UTC()
		filter.StartBefore = &startBefore
	}
	if query.FromDate != "" && query.ToDate != "" && from.After(to) {
		return filter, ErrInvalidDateRange
	}

	if query.Status != "" {
		status := entity.AppointmentStatus(query.Status)
		if status != entity.StatusUnset {
			if err := scheduling.Aggregate(scheduling.ValidateStatus(status)); err != nil {
				return filter, err
			}
		}
		filter.Status = status
	}

	filter.ClientID = query.ClientID
	filter.ProfessionalID = query.ProfessionalID
	filter.ServiceID = query.ServiceID
	return filter, nil
}

func (u *appointmentUsecase) findPerson(tx *gorm.DB, entityName string, id uint) (*entity.Person, error) {
	person, err := u.PersonRepo.FindByID(tx, id)
	if err != nil {
		u.Log.Warnf("Failed to find %s %d: %+v", entityName, id, err)
		return nil, err
	}
	if person == nil {
		return nil, scheduling.NewNotFound(entityName, id)
	}
	return person, nil
}

func (u *appointmentUsecase) findService(tx *gorm.DB, id uint) (*entity.Service, error) {
	svc, err := u.ServiceRepo.FindByID(tx, id)
	if err != nil {
		u.Log.Warnf("Failed to find service %d: %+v", id, err)
		return nil, err
	}
	if svc == nil {
		return nil, scheduling.NewNotFound("service", id)
	}
	return svc, nil
}

func (u *appointmentUsecase) eligibilityOf(tx *gorm.DB, professionalID uint) (scheduling.Eligibility, error) {
	edges, err := u.ProviderRepo.FindByProfessional(tx, professionalID)
	if err != nil {
		u.Log.Warnf("Failed to find services of professional %d: %+v", professionalID, err)
		return nil, err
	}
	return scheduling.NewProviderSet(edges), nil
}

// checkOverlap returns the policy verdict separately from lookup failures
func (u *appointmentUsecase) checkOverlap(tx *gorm.DB, professionalID uint, start, end time.Time, excludeID uint) (violation error, err error) {
	if !u.Policy.Enforced() || !start.Before(end) {
		return nil, nil
	}
	existing, err := u.AppointmentRepo.FindOverlapping(tx, professionalID, start.UTC(), end.UTC(), excludeID)
	if err != nil {
		u.Log.Warnf("Failed to find overlapping appointments for professional %d: %+v", professionalID, err)
		return nil, err
	}
	return u.Policy.Check(start, end, existing), nil
}

// reload returns the committed appointment with its relations, falling back to the
// in-memory value when the read fails.
func (u *appointmentUsecase) reload(ctx context.Context, appointment *entity.Appointment) *dto.AppointmentResponse {
	full, err := u.AppointmentRepo.FindByID(u.DB.WithContext(ctx), appointment.ID)
	if err != nil || full == nil {
		u.Log.Warnf("Failed to reload appointment %d: %+v", appointment.ID, err)
		return converter.AppointmentToResponse(appointment)
	}
	return converter.AppointmentToResponse(full)
}
