package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/scheduling"
	"clinic-scheduler/internal/repository"
	"clinic-scheduler/internal/service"
	"clinic-scheduler/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"
)

func seedAppointment(t *testing.T, env *testEnv) *entity.Appointment {
	t.Helper()
	client := testutil.CreateClient(t, env.db)
	svc := testutil.CreateService(t, env.db, 50)
	return env.book(t, client, svc, nil, christmasSlot, entity.StatusScheduled)
}

func TestAppointmentStatusUsecase_Transition(t *testing.T) {
	ctx := context.Background()

	t.Run("each transition appends one event in order", func(t *testing.T) {
		env := newTestEnv(t, nil)
		appointment := seedAppointment(t, env)

		path := []entity.AppointmentStatus{
			entity.StatusProfessionalNotified,
			entity.StatusReminder24hSent,
			entity.StatusFirstConfirmed,
			entity.StatusCompleted,
			// any order is accepted
			entity.StatusScheduled,
		}
		for _, status := range path {
			event, err := env.status.Transition(ctx, appointment.ID, &dto.TransitionRequest{Status: string(status)})
			require.NoError(t, err)
			assert.Equal(t, string(status), event.Status)
		}

		history, err := env.appointments().History(ctx, appointment.ID)
		require.NoError(t, err)
		require.Len(t, history.Events, len(path)+1)
		assert.Equal(t, string(entity.StatusScheduled), history.Events[0].Status)
		for i, status := range path {
			assert.Equal(t, string(status), history.Events[i+1].Status)
		}

		current, err := env.status.CurrentStatus(ctx, appointment.ID)
		require.NoError(t, err)
		assert.Equal(t, string(path[len(path)-1]), current.Status)
	})

	t.Run("cancelling twice is refused", func(t *testing.T) {
		env := newTestEnv(t, nil)
		appointment := seedAppointment(t, env)
		cancel := &dto.TransitionRequest{Status: string(entity.StatusCancelled)}

		_, err := env.status.Transition(ctx, appointment.ID, cancel)
		require.NoError(t, err)

		_, err = env.status.Transition(ctx, appointment.ID, cancel)
		assert.ErrorIs(t, err, scheduling.ErrAlreadyCancelled)
		var violation *scheduling.Violation
		require.ErrorAs(t, err, &violation)
		assert.Equal(t, "status", violation.Field)
		assert.Equal(t, entity.StatusCancelled, violation.Value)

		history, err := env.appointments().History(ctx, appointment.ID)
		require.NoError(t, err)
		assert.Len(t, history.Events, 2)

		// leaving the cancelled state is allowed
		_, err = env.status.Transition(ctx, appointment.ID, &dto.TransitionRequest{Status: string(entity.StatusScheduled)})
		assert.NoError(t, err)
	})

	t.Run("unknown status writes nothing", func(t *testing.T) {
		env := newTestEnv(t, nil)
		appointment := seedAppointment(t, env)

		_, err := env.status.Transition(ctx, appointment.ID, &dto.TransitionRequest{Status: "rescheduled"})
		assert.ErrorIs(t, err, scheduling.ErrInvalidStatus)

		_, err = env.status.Transition(ctx, appointment.ID, &dto.TransitionRequest{Status: string(entity.StatusUnset)})
		assert.ErrorIs(t, err, scheduling.ErrInvalidStatus)

		assert.Equal(t, int64(1), countRows(t, env, &entity.StatusEvent{}))
	})

	t.Run("unknown appointment", func(t *testing.T) {
		env := newTestEnv(t, nil)

		_, err := env.status.Transition(ctx, 77, &dto.TransitionRequest{Status: string(entity.StatusCompleted)})
		assert.ErrorIs(t, err, scheduling.ErrNotFound)
		assert.EqualError(t, err, "appointment 77 not found")
	})

	t.Run("notes accumulate under timestamp headers", func(t *testing.T) {
		env := newTestEnv(t, nil)
		appointment := seedAppointment(t, env)

		_, err := env.status.Transition(ctx, appointment.ID, &dto.TransitionRequest{Status: string(entity.StatusFirstConfirmed), Notes: "confirmed by chat"})
		require.NoError(t, err)
		_, err = env.status.Transition(ctx, appointment.ID, &dto.TransitionRequest{Status: string(entity.StatusSecondConfirmed), Notes: "confirmed by phone"})
		require.NoError(t, err)

		stored, err := env.appointments().GetByID(ctx, appointment.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, strings.Count(stored.Notes, "--- "))
		assert.Less(t, strings.Index(stored.Notes, "confirmed by chat"), strings.Index(stored.Notes, "confirmed by phone"))
	})

	t.Run("transitions are audited", func(t *testing.T) {
		env := newTestEnv(t, nil)
		appointment := seedAppointment(t, env)

		_, err := env.status.Transition(ctx, appointment.ID, &dto.TransitionRequest{Status: string(entity.StatusNoShow)})
		require.NoError(t, err)

		var logs []entity.AuditLog
		require.NoError(t, env.db.Where("action = ?", entity.AuditActionAppointmentStatus).Find(&logs).Error)
		require.Len(t, logs, 1)
		assert.Equal(t, "system", logs[0].Actor)
	})
}

func TestAppointmentStatusUsecase_HistoryFollowsAppendOrderUnderClockSkew(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	appointment := seedAppointment(t, env)

	// a second writer whose clock is an hour behind the one that seeded the history
	lagging := func() time.Time { return time.Date(2024, 12, 20, 8, 0, 0, 0, time.UTC) }
	appointmentRepo := repository.NewAppointmentRepository()
	recorder := service.NewStatusRecorder(env.log, appointmentRepo, repository.NewStatusEventRepository(), time.UTC, lagging)
	behind := NewAppointmentStatusUsecase(env.db, env.log, appointmentRepo, recorder, env.audit)

	_, err := behind.Transition(ctx, appointment.ID, &dto.TransitionRequest{Status: string(entity.StatusCancelled)})
	require.NoError(t, err)

	history, err := env.appointments().History(ctx, appointment.ID)
	require.NoError(t, err)
	require.Len(t, history.Events, 2)
	assert.Equal(t, string(entity.StatusScheduled), history.Events[0].Status)
	assert.Equal(t, string(entity.StatusCancelled), history.Events[1].Status)

	current, err := env.status.CurrentStatus(ctx, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, history.Events[len(history.Events)-1].Status, current.Status)
}

func TestAppointmentStatusUsecase_CurrentStatusUnset(t *testing.T) {
	env := newTestEnv(t, nil)
	client := testutil.CreateClient(t, env.db)
	svc := testutil.CreateService(t, env.db, 50)

	bare := &entity.Appointment{ClientID: client.ID, ServiceID: svc.ID, StartAt: christmasSlot, EndAt: christmasSlot.Add(svc.Duration())}
	require.NoError(t, env.db.Omit(clause.Associations).Create(bare).Error)

	current, err := env.status.CurrentStatus(context.Background(), bare.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.StatusUnset), current.Status)
}
