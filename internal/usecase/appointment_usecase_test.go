package usecase

import (
	"context"
	"testing"
	"time"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/scheduling"
	"clinic-scheduler/internal/service"
	"clinic-scheduler/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var christmasSlot = time.Date(2024, 12, 25, 14, 30, 0, 0, time.UTC)

func countRows(t *testing.T, env *testEnv, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, env.db.Model(model).Count(&n).Error)
	return n
}

func TestAppointmentUsecase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("eligible professional is scheduled with a seed event", func(t *testing.T) {
		env := newTestEnv(t, nil)
		client := testutil.CreateClient(t, env.db)
		professional := testutil.CreateProfessional(t, env.db)
		svc := testutil.CreateService(t, env.db, 50)
		testutil.Assign(t, env.db, svc.ID, professional.ID)

		created, err := env.appointments().Create(ctx, &dto.CreateAppointmentRequest{
			ClientID:       client.ID,
			ServiceID:      svc.ID,
			ProfessionalID: &professional.ID,
			StartAt:        christmasSlot,
			EndAt:          christmasSlot.Add(50 * time.Minute),
		})
		require.NoError(t, err)
		assert.Equal(t, string(entity.StatusScheduled), created.Status)
		require.NotNil(t, created.CurrentStatus)
		require.NotNil(t, created.Client)
		assert.Equal(t, client.FullName(), created.Client.FullName)

		history, err := env.appointments().History(ctx, created.ID)
		require.NoError(t, err)
		require.Len(t, history.Events, 1)
		assert.Equal(t, created.CurrentStatus.ID, history.Events[0].ID)
	})

	t.Run("professional without the service is rejected and nothing is written", func(t *testing.T) {
		env := newTestEnv(t, nil)
		client := testutil.CreateClient(t, env.db)
		professional := testutil.CreateProfessional(t, env.db)
		svc := testutil.CreateService(t, env.db, 50)

		_, err := env.appointments().Create(ctx, &dto.CreateAppointmentRequest{
			ClientID:       client.ID,
			ServiceID:      svc.ID,
			ProfessionalID: &professional.ID,
			StartAt:        christmasSlot,
			EndAt:          christmasSlot.Add(50 * time.Minute),
		})
		assert.ErrorIs(t, err, scheduling.ErrNotEligible)
		assert.Zero(t, countRows(t, env, &entity.Appointment{}))
		assert.Zero(t, countRows(t, env, &entity.StatusEvent{}))
	})

	t.Run("every failed precondition is reported", func(t *testing.T) {
		env := newTestEnv(t, nil)
		client := testutil.CreateClient(t, env.db)
		professional := testutil.CreateProfessional(t, env.db)
		svc := testutil.CreateService(t, env.db, 50)

		_, err := env.appointments().Create(ctx, &dto.CreateAppointmentRequest{
			ClientID:       professional.ID,
			ServiceID:      svc.ID,
			ProfessionalID: &client.ID,
			StartAt:        christmasSlot,
			EndAt:          christmasSlot,
		})

		var verr *scheduling.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.True(t, verr.Has(scheduling.ErrInvalidWindow))
		assert.True(t, verr.Has(scheduling.ErrInvalidRole))
		assert.True(t, verr.Has(scheduling.ErrNotEligible))
		assert.Equal(t, "end_at", verr.Violations[0].Field)
	})

	t.Run("start equal to end is an invalid window", func(t *testing.T) {
		env := newTestEnv(t, nil)
		client := testutil.CreateClient(t, env.db)
		svc := testutil.CreateService(t, env.db, 50)

		_, err := env.appointments().Create(ctx, &dto.CreateAppointmentRequest{
			ClientID:  client.ID,
			ServiceID: svc.ID,
			StartAt:   christmasSlot,
			EndAt:     christmasSlot,
		})
		assert.ErrorIs(t, err, scheduling.ErrInvalidWindow)
	})

	t.Run("missing references are not found in order", func(t *testing.T) {
		env := newTestEnv(t, nil)
		client := testutil.CreateClient(t, env.db)

		_, err := env.appointments().Create(ctx, &dto.CreateAppointmentRequest{
			ClientID:  999,
			ServiceID: 998,
			StartAt:   christmasSlot,
			EndAt:     christmasSlot.Add(time.Hour),
		})
		assert.ErrorIs(t, err, scheduling.ErrNotFound)
		assert.EqualError(t, err, "client 999 not found")

		_, err = env.appointments().Create(ctx, &dto.CreateAppointmentRequest{
			ClientID:  client.ID,
			ServiceID: 998,
			StartAt:   christmasSlot,
			EndAt:     christmasSlot.Add(time.Hour),
		})
		assert.EqualError(t, err, "service 998 not found")
	})

	t.Run("without a professional eligibility is not checked", func(t *testing.T) {
		env := newTestEnv(t, nil)
		client := testutil.CreateClient(t, env.db)
		svc := testutil.CreateService(t, env.db, 30)

		created, err := env.appointments().Create(ctx, &dto.CreateAppointmentRequest{
			ClientID:  client.ID,
			ServiceID: svc.ID,
			StartAt:   christmasSlot,
			EndAt:     christmasSlot.Add(30 * time.Minute),
			Notes:     "walk-in",
		})
		require.NoError(t, err)
		assert.Nil(t, created.ProfessionalID)
		assert.Equal(t, "walk-in", created.Notes)
	})
}

func TestAppointmentUsecase_OverlapPolicy(t *testing.T) {
	ctx := context.Background()

	book := func(t *testing.T, env *testEnv, start time.Time) error {
		t.Helper()
		var client, professional entity.Person
		require.NoError(t, env.db.Where("role = ?", entity.RoleClient).First(&client).Error)
		require.NoError(t, env.db.Where("role = ?", entity.RoleProfessional).First(&professional).Error)
		var svc entity.Service
		require.NoError(t, env.db.First(&svc).Error)

		_, err := env.appointments().Create(ctx, &dto.CreateAppointmentRequest{
			ClientID:       client.ID,
			ServiceID:      svc.ID,
			ProfessionalID: &professional.ID,
			StartAt:        start,
			EndAt:          start.Add(time.Hour),
		})
		return err
	}

	seed := func(t *testing.T, env *testEnv) {
		t.Helper()
		testutil.CreateClient(t, env.db)
		professional := testutil.CreateProfessional(t, env.db)
		svc := testutil.CreateService(t, env.db, 60)
		testutil.Assign(t, env.db, svc.ID, professional.ID)
	}

	t.Run("double booking is allowed by default", func(t *testing.T) {
		env := newTestEnv(t, nil)
		seed(t, env)

		require.NoError(t, book(t, env, christmasSlot))
		require.NoError(t, book(t, env, christmasSlot.Add(30*time.Minute)))
		assert.Equal(t, int64(2), countRows(t, env, &entity.Appointment{}))
	})

	t.Run("rejecting policy refuses intersecting windows", func(t *testing.T) {
		env := newTestEnv(t, scheduling.RejectOverlaps{})
		seed(t, env)

		require.NoError(t, book(t, env, christmasSlot))
		assert.ErrorIs(t, book(t, env, christmasSlot.Add(30*time.Minute)), scheduling.ErrOverlap)
		assert.NoError(t, book(t, env, christmasSlot.Add(time.Hour)))
	})

	t.Run("cancelled appointments free the slot", func(t *testing.T) {
		env := newTestEnv(t, scheduling.RejectOverlaps{})
		seed(t, env)

		require.NoError(t, book(t, env, christmasSlot))
		var first entity.Appointment
		require.NoError(t, env.db.First(&first).Error)
		_, err := env.status.Transition(ctx, first.ID, &dto.TransitionRequest{Status: string(entity.StatusCancelled)})
		require.NoError(t, err)

		assert.NoError(t, book(t, env, christmasSlot))
	})
}

func TestAppointmentUsecase_Update(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, policy scheduling.OverlapPolicy) (*testEnv, *entity.Appointment, *entity.Person) {
		t.Helper()
		env := newTestEnv(t, policy)
		client := testutil.CreateClient(t, env.db)
		professional := testutil.CreateProfessional(t, env.db)
		svc := testutil.CreateService(t, env.db, 50)
		testutil.Assign(t, env.db, svc.ID, professional.ID)
		appointment := env.book(t, client, svc, professional, christmasSlot, entity.StatusFirstConfirmed)
		return env, appointment, professional
	}

	t.Run("reschedule keeps status and history", func(t *testing.T) {
		env, appointment, _ := setup(t, nil)
		newStart := christmasSlot.Add(24 * time.Hour)

		updated, err := env.appointments().Update(ctx, appointment.ID, &dto.UpdateAppointmentRequest{
			StartAt: &newStart,
			EndAt:   ptr(newStart.Add(50 * time.Minute)),
		})
		require.NoError(t, err)
		assert.True(t, updated.StartAt.Equal(newStart))
		assert.Equal(t, string(entity.StatusFirstConfirmed), updated.Status)

		history, err := env.appointments().History(ctx, appointment.ID)
		require.NoError(t, err)
		assert.Len(t, history.Events, 1)
	})

	t.Run("inverted window is rejected", func(t *testing.T) {
		env, appointment, _ := setup(t, nil)

		_, err := env.appointments().Update(ctx, appointment.ID, &dto.UpdateAppointmentRequest{
			EndAt: ptr(christmasSlot.Add(-time.Minute)),
		})
		assert.ErrorIs(t, err, scheduling.ErrInvalidWindow)
	})

	t.Run("moving to an unassigned service is not eligible", func(t *testing.T) {
		env, appointment, _ := setup(t, nil)
		other := testutil.CreateService(t, env.db, 30)

		_, err := env.appointments().Update(ctx, appointment.ID, &dto.UpdateAppointmentRequest{ServiceID: &other.ID})
		assert.ErrorIs(t, err, scheduling.ErrNotEligible)
	})

	t.Run("unassign clears the professional", func(t *testing.T) {
		env, appointment, _ := setup(t, nil)

		updated, err := env.appointments().Update(ctx, appointment.ID, &dto.UpdateAppointmentRequest{UnassignProfessional: true})
		require.NoError(t, err)
		assert.Nil(t, updated.ProfessionalID)
		assert.Nil(t, updated.Professional)
	})

	t.Run("moving onto a busy slot is rejected under the strict policy", func(t *testing.T) {
		env, appointment, professional := setup(t, scheduling.RejectOverlaps{})
		var svc entity.Service
		require.NoError(t, env.db.First(&svc, appointment.ServiceID).Error)
		other := testutil.CreateClient(t, env.db)
		later := christmasSlot.Add(2 * time.Hour)
		env.book(t, other, &svc, professional, later, entity.StatusScheduled)

		_, err := env.appointments().Update(ctx, appointment.ID, &dto.UpdateAppointmentRequest{
			StartAt: &later,
			EndAt:   ptr(later.Add(50 * time.Minute)),
		})
		assert.ErrorIs(t, err, scheduling.ErrOverlap)

		// its own window never conflicts with itself
		_, err = env.appointments().Update(ctx, appointment.ID, &dto.UpdateAppointmentRequest{
			EndAt: ptr(christmasSlot.Add(40 * time.Minute)),
		})
		assert.NoError(t, err)
	})

	t.Run("unknown appointment", func(t *testing.T) {
		env, _, _ := setup(t, nil)

		_, err := env.appointments().Update(ctx, 404, &dto.UpdateAppointmentRequest{})
		assert.ErrorIs(t, err, scheduling.ErrNotFound)
	})
}

// reassigningLocker moves the appointment to another professional right before the
// first lock is taken, as a concurrent reassignment would
type reassigningLocker struct {
	service.BookingLocker
	locked   []uint
	reassign func()
}

func (l *reassigningLocker) WithProfessionalLock(ctx context.Context, professionalID uint, fn func(ctx context.Context) error) error {
	l.locked = append(l.locked, professionalID)
	if l.reassign != nil {
		reassign := l.reassign
		l.reassign = nil
		reassign()
	}
	return l.BookingLocker.WithProfessionalLock(ctx, professionalID, fn)
}

func TestAppointmentUsecase_UpdateLocksCurrentProfessional(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, scheduling.RejectOverlaps{})
	client := testutil.CreateClient(t, env.db)
	first := testutil.CreateProfessional(t, env.db)
	second := testutil.CreateProfessional(t, env.db)
	svc := testutil.CreateService(t, env.db, 50)
	testutil.Assign(t, env.db, svc.ID, first.ID)
	testutil.Assign(t, env.db, svc.ID, second.ID)
	appointment := env.book(t, client, svc, first, christmasSlot, entity.StatusScheduled)

	t.Run("reassignment before the row lock is retried under the new professional", func(t *testing.T) {
		locker := &reassigningLocker{BookingLocker: env.deps.Locker, reassign: func() {
			require.NoError(t, env.db.Model(&entity.Appointment{}).
				Where("id = ?", appointment.ID).
				Update("professional_id", second.ID).Error)
		}}
		deps := env.deps
		deps.Locker = locker

		updated, err := NewAppointmentUsecase(deps).Update(ctx, appointment.ID, &dto.UpdateAppointmentRequest{
			EndAt: ptr(christmasSlot.Add(40 * time.Minute)),
		})
		require.NoError(t, err)
		assert.Equal(t, []uint{first.ID, second.ID}, locker.locked)
		require.NotNil(t, updated.ProfessionalID)
		assert.Equal(t, second.ID, *updated.ProfessionalID)
		assert.True(t, updated.EndAt.Equal(christmasSlot.Add(40*time.Minute)))
	})

	t.Run("a stale professional is refused under the row lock", func(t *testing.T) {
		u := NewAppointmentUsecase(env.deps).(*appointmentUsecase)

		_, err := u.update(ctx, appointment.ID, &dto.UpdateAppointmentRequest{
			EndAt: ptr(christmasSlot.Add(30 * time.Minute)),
		}, sameProfessionalGuard(&first.ID))
		assert.ErrorIs(t, err, errAssignmentMoved)

		var stored entity.Appointment
		require.NoError(t, env.db.First(&stored, appointment.ID).Error)
		assert.True(t, stored.EndAt.Equal(christmasSlot.Add(40*time.Minute)))
	})
}

func TestAppointmentUsecase_List(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	bogota := time.FixedZone("COT", -5*60*60)
	env.deps.Location = bogota
	env.deps.Now = func() time.Time { return time.Date(2024, 12, 25, 12, 0, 0, 0, bogota) }

	client := testutil.CreateClient(t, env.db)
	svc := testutil.CreateService(t, env.db, 30)

	// 2024-12-24 23:00 local
	env.book(t, client, svc, nil, time.Date(2024, 12, 25, 4, 0, 0, 0, time.UTC), entity.StatusScheduled)
	// 2024-12-25 09:30 local
	morning := env.book(t, client, svc, nil, time.Date(2024, 12, 25, 14, 30, 0, 0, time.UTC), entity.StatusCancelled)
	// 2024-12-25 23:30 local
	night := env.book(t, client, svc, nil, time.Date(2024, 12, 26, 4, 30, 0, 0, time.UTC), entity.StatusScheduled)

	uc := env.appointments()

	t.Run("inclusive calendar dates in the clinic zone", func(t *testing.T) {
		list, err := uc.List(ctx, &dto.AppointmentQuery{FromDate: "2024-12-25", ToDate: "2024-12-25"})
		require.NoError(t, err)
		require.Equal(t, 2, list.Total)
		assert.Equal(t, morning.ID, list.Appointments[0].ID)
		assert.Equal(t, night.ID, list.Appointments[1].ID)
	})

	t.Run("today uses the injected clock", func(t *testing.T) {
		list, err := uc.Today(ctx, &dto.AppointmentQuery{Status: string(entity.StatusScheduled)})
		require.NoError(t, err)
		require.Equal(t, 1, list.Total)
		assert.Equal(t, night.ID, list.Appointments[0].ID)
	})

	t.Run("status filter", func(t *testing.T) {
		list, err := uc.List(ctx, &dto.AppointmentQuery{Status: string(entity.StatusCancelled)})
		require.NoError(t, err)
		require.Equal(t, 1, list.Total)
		assert.Equal(t, morning.ID, list.Appointments[0].ID)
	})

	t.Run("bad queries", func(t *testing.T) {
		_, err := uc.List(ctx, &dto.AppointmentQuery{FromDate: "25/12/2024"})
		assert.ErrorIs(t, err, ErrInvalidDate)

		_, err = uc.List(ctx, &dto.AppointmentQuery{FromDate: "2024-12-26", ToDate: "2024-12-25"})
		assert.ErrorIs(t, err, ErrInvalidDateRange)

		_, err = uc.List(ctx, &dto.AppointmentQuery{Status: "lost"})
		assert.ErrorIs(t, err, scheduling.ErrInvalidStatus)
	})
}
