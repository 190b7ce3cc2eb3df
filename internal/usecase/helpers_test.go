package usecase

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/scheduling"
	"clinic-scheduler/internal/repository"
	"clinic-scheduler/internal/service"
	"clinic-scheduler/internal/testutil"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// stepClock returns strictly increasing instants so event timestamps are distinct
func stepClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := current
		current = current.Add(time.Minute)
		return now
	}
}

type testEnv struct {
	db     *gorm.DB
	log    *logrus.Logger
	audit  service.AuditService
	deps   AppointmentDeps
	status AppointmentStatusUsecase
}

func newTestEnv(t *testing.T, policy scheduling.OverlapPolicy) *testEnv {
	t.Helper()

	db := testutil.NewTestDB(t)
	log := testLogger()
	audit := service.NewAuditService(log, repository.NewAuditLogRepository())

	appointmentRepo := repository.NewAppointmentRepository()
	statusEventRepo := repository.NewStatusEventRepository()
	now := stepClock(time.Date(2024, 12, 20, 9, 0, 0, 0, time.UTC))
	recorder := service.NewStatusRecorder(log, appointmentRepo, statusEventRepo, time.UTC, now)

	locker := service.NewLocalBookingLocker(log)
	t.Cleanup(locker.Stop)

	deps := AppointmentDeps{
		DB:              db,
		Log:             log,
		PersonRepo:      repository.NewPersonRepository(),
		ServiceRepo:     repository.NewServiceRepository(),
		ProviderRepo:    repository.NewServiceProviderRepository(),
		AppointmentRepo: appointmentRepo,
		StatusEventRepo: statusEventRepo,
		Recorder:        recorder,
		AuditService:    audit,
		Policy:          policy,
		Locker:          locker,
		Location:        time.UTC,
		Now:             now,
	}

	return &testEnv{
		db:     db,
		log:    log,
		audit:  audit,
		deps:   deps,
		status: NewAppointmentStatusUsecase(db, log, appointmentRepo, recorder, audit),
	}
}

func (e *testEnv) appointments() AppointmentUsecase {
	return NewAppointmentUsecase(e.deps)
}

// book persists an appointment and seeds its history through the env's recorder,
// so every event carries the env clock
func (e *testEnv) book(t *testing.T, client *entity.Person, svc *entity.Service, professional *entity.Person, start time.Time, status entity.AppointmentStatus) *entity.Appointment {
	t.Helper()

	appointment := testutil.NewAppointment(t, e.db, client, svc, professional, start)
	_, err := e.deps.Recorder.Record(context.Background(), e.db, appointment, status, "")
	require.NoError(t, err)
	return appointment
}

func ptr[T any](v T) *T {
	return &v
}
