package main

import (
	"context"
	"io"
	"testing"
	"time"

	"clinic-scheduler/cmd/bootstrap"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/testutil"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeeder_Run(t *testing.T) {
	db := testutil.NewTestDB(t)
	log := logrus.New()
	log.SetOutput(io.Discard)

	usecases, stop := bootstrap.NewUsecases(bootstrap.Components{DB: db, Log: log, Location: time.UTC})
	t.Cleanup(stop)

	s := &seeder{uc: usecases, faker: gofakeit.New(42), log: log, loc: time.UTC}
	require.NoError(t, s.run(context.Background(), counts{Professionals: 2, Clients: 3, Appointments: 12}))

	ctx := context.Background()
	professionals, err := usecases.Identity.ListPersons(ctx, entity.RoleProfessional)
	require.NoError(t, err)
	assert.Equal(t, 2, professionals.Total)

	clients, err := usecases.Identity.ListPersons(ctx, entity.RoleClient)
	require.NoError(t, err)
	assert.Equal(t, 3, clients.Total)

	booked, err := usecases.Appointments.List(ctx, &dto.AppointmentQuery{})
	require.NoError(t, err)
	require.Equal(t, 12, booked.Total)
	for _, a := range booked.Appointments {
		assert.Equal(t, "scheduled", a.Status)
		assert.True(t, a.EndAt.After(a.StartAt))
		require.NotNil(t, a.ProfessionalID)
	}
}
