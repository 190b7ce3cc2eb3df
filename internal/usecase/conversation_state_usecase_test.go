package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/scheduling"
	"clinic-scheduler/internal/repository"
	"clinic-scheduler/internal/service"
	"clinic-scheduler/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConversationUsecase(t *testing.T, env *testEnv) (ConversationStateUsecase, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	uc := NewConversationStateUsecase(
		env.db,
		env.log,
		repository.NewConversationStateRepository(),
		repository.NewClientProfileRepository(),
		service.NewRedisConversationCache(client, env.log, time.Minute),
		env.audit,
	)
	return uc, mr
}

func TestConversationStateUsecase_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	uc, mr := newConversationUsecase(t, env)

	first, err := uc.Upsert(ctx, "3001234567", &dto.UpsertConversationStateRequest{Payload: json.RawMessage(`{"step":"greeting"}`)})
	require.NoError(t, err)

	second, err := uc.Upsert(ctx, "3001234567", &dto.UpsertConversationStateRequest{Payload: json.RawMessage(`{"step":"pick_service"}`)})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	got, err := uc.GetByHandle(ctx, "3001234567")
	require.NoError(t, err)
	assert.JSONEq(t, `{"step":"pick_service"}`, string(got.Payload))
	assert.True(t, mr.Exists("conversation:state:3001234567"))

	_, err = uc.Upsert(ctx, "3001234567", &dto.UpsertConversationStateRequest{Payload: json.RawMessage(`{broken`)})
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = uc.GetByHandle(ctx, "3009999999")
	assert.ErrorIs(t, err, scheduling.ErrNotFound)
}

func TestConversationStateUsecase_SharedLoadOutlivesCallerCancel(t *testing.T) {
	env := newTestEnv(t, nil)
	uc, mr := newConversationUsecase(t, env)

	_, err := uc.Upsert(context.Background(), "3005550000", &dto.UpsertConversationStateRequest{Payload: json.RawMessage(`{"step":"greeting"}`)})
	require.NoError(t, err)
	mr.Del("conversation:state:3005550000")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := uc.GetByHandle(ctx, "3005550000")
	require.NoError(t, err)
	assert.JSONEq(t, `{"step":"greeting"}`, string(got.Payload))
	assert.True(t, mr.Exists("conversation:state:3005550000"))
}

func TestConversationStateUsecase_DeleteDetachesClients(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	uc, mr := newConversationUsecase(t, env)

	state, err := uc.Upsert(ctx, "3007654321", &dto.UpsertConversationStateRequest{Payload: json.RawMessage(`{}`)})
	require.NoError(t, err)

	client := testutil.CreateClient(t, env.db)
	require.NoError(t, env.db.Model(&entity.ClientProfile{}).
		Where("person_id = ?", client.ID).
		Update("conversation_state_id", state.ID).Error)

	_, err = uc.GetByHandle(ctx, "3007654321")
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, "3007654321"))
	assert.False(t, mr.Exists("conversation:state:3007654321"))

	var profile entity.ClientProfile
	require.NoError(t, env.db.First(&profile, "person_id = ?", client.ID).Error)
	assert.Nil(t, profile.ConversationStateID)

	_, err = uc.GetByHandle(ctx, "3007654321")
	assert.ErrorIs(t, err, scheduling.ErrNotFound)

	assert.ErrorIs(t, uc.Delete(ctx, "3007654321"), scheduling.ErrNotFound)
}
