package usecase

import (
	"context"
	"testing"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/scheduling"
	"clinic-scheduler/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdentityUsecase(env *testEnv) IdentityUsecase {
	return NewIdentityUsecase(
		env.db,
		env.log,
		repository.NewPersonRepository(),
		repository.NewClientProfileRepository(),
		repository.NewProfessionalProfileRepository(),
		repository.NewConversationStateRepository(),
		env.audit,
	)
}

func personFields(document string) dto.PersonFields {
	email := " Ana.Perez@Example.com "
	return dto.PersonFields{
		GivenNames:     "Ana María",
		FamilyNames:    "Pérez Gómez",
		DocumentType:   "cc",
		DocumentNumber: document,
		Email:          &email,
		Phone:          "+57 300 123 4567",
	}
}

func TestIdentityUsecase_RegisterClient(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	uc := newIdentityUsecase(env)

	age := 9
	created, err := uc.RegisterClient(ctx, &dto.RegisterClientRequest{PersonFields: personFields("1020304050"), Age: &age})
	require.NoError(t, err)
	assert.Equal(t, string(entity.RoleClient), created.Role)
	assert.Equal(t, "CC", created.DocumentType)
	require.NotNil(t, created.Email)
	assert.Equal(t, "ana.perez@example.com", *created.Email)
	require.NotNil(t, created.ClientProfile)
	assert.Nil(t, created.ProfessionalProfile)

	t.Run("document numbers are unique", func(t *testing.T) {
		fields := personFields("1020304050")
		fields.Email = nil
		_, err := uc.RegisterClient(ctx, &dto.RegisterClientRequest{PersonFields: fields})
		assert.ErrorIs(t, err, ErrDocumentExists)
	})

	t.Run("emails are unique", func(t *testing.T) {
		_, err := uc.RegisterClient(ctx, &dto.RegisterClientRequest{PersonFields: personFields("999")})
		assert.ErrorIs(t, err, ErrEmailExists)
	})

	t.Run("field problems are reported together", func(t *testing.T) {
		fields := personFields("")
		fields.DocumentType = "PASSPORT"
		fields.Phone = "call me"
		tooOld := 130

		_, err := uc.RegisterClient(ctx, &dto.RegisterClientRequest{PersonFields: fields, Age: &tooOld})
		var verr *scheduling.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.True(t, verr.Has(ErrInvalidDocumentType))
		assert.True(t, verr.Has(ErrInvalidPhone))
		assert.True(t, verr.Has(ErrInvalidAge))
	})

	t.Run("unknown conversation state", func(t *testing.T) {
		stateID := uint(42)
		_, err := uc.RegisterClient(ctx, &dto.RegisterClientRequest{PersonFields: personFields("777"), ConversationStateID: &stateID})
		assert.ErrorIs(t, err, scheduling.ErrNotFound)
	})

	t.Run("lookup by document", func(t *testing.T) {
		found, err := uc.GetPersonByDocument(ctx, "1020304050")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
	})
}

func TestIdentityUsecase_RegisterProfessional(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	uc := newIdentityUsecase(env)

	fields := personFields("80000001")
	fields.Email = nil
	created, err := uc.RegisterProfessional(ctx, &dto.RegisterProfessionalRequest{PersonFields: fields, MessagingHandle: "3001112233"})
	require.NoError(t, err)
	require.NotNil(t, created.ProfessionalProfile)
	assert.Equal(t, "3001112233", created.ProfessionalProfile.MessagingHandle)

	fields = personFields("80000002")
	fields.Email = nil
	_, err = uc.RegisterProfessional(ctx, &dto.RegisterProfessionalRequest{PersonFields: fields, MessagingHandle: "3001112233"})
	assert.ErrorIs(t, err, ErrHandleExists)

	professionals, err := uc.ListPersons(ctx, entity.RoleProfessional)
	require.NoError(t, err)
	assert.Equal(t, 1, professionals.Total)

	clients, err := uc.ListPersons(ctx, entity.RoleClient)
	require.NoError(t, err)
	assert.Zero(t, clients.Total)

	_, err = uc.ListPersons(ctx, entity.Role("admin"))
	assert.ErrorIs(t, err, scheduling.ErrInvalidRole)
}

func TestIdentityUsecase_UpdateClientProfile(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	uc := newIdentityUsecase(env)

	created, err := uc.RegisterClient(ctx, &dto.RegisterClientRequest{PersonFields: personFields("1")})
	require.NoError(t, err)

	neighborhood := "Chapinero"
	updated, err := uc.UpdateClientProfile(ctx, created.ID, &dto.UpdateClientProfileRequest{Neighborhood: &neighborhood})
	require.NoError(t, err)
	require.NotNil(t, updated.ClientProfile.Neighborhood)
	assert.Equal(t, "Chapinero", *updated.ClientProfile.Neighborhood)
	assert.Equal(t, created.Phone, updated.Phone)

	_, err = uc.UpdateClientProfile(ctx, 999, &dto.UpdateClientProfileRequest{})
	assert.ErrorIs(t, err, scheduling.ErrNotFound)
}
