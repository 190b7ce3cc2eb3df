package usecase

import (
	"context"
	"strings"
	"testing"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApiKeyUsecase(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	uc := NewApiKeyUsecase(env.db, env.log, repository.NewApiKeyRepository(), env.audit)

	issued, err := uc.Issue(ctx, &dto.CreateApiKeyRequest{Name: "whatsapp-bot"})
	require.NoError(t, err)
	prefix, secret, ok := strings.Cut(issued.Key, ".")
	require.True(t, ok)
	assert.Len(t, prefix, 8)
	assert.Equal(t, issued.Prefix, prefix)
	assert.Len(t, secret, 40)

	var stored entity.ApiKey
	require.NoError(t, env.db.First(&stored, "id = ?", issued.ID).Error)
	assert.NotContains(t, stored.KeyHash, secret)

	t.Run("valid key authenticates and counts usage", func(t *testing.T) {
		key, err := uc.Authenticate(ctx, issued.Key)
		require.NoError(t, err)
		assert.Equal(t, "whatsapp-bot", key.Name)

		key, err = uc.Authenticate(ctx, issued.Key)
		require.NoError(t, err)
		assert.Equal(t, int64(2), key.UsageCount)
		assert.NotNil(t, key.LastUsedAt)
	})

	t.Run("malformed or wrong keys are rejected", func(t *testing.T) {
		for _, raw := range []string{"", "nodot", prefix + ".", "deadbeef." + secret, prefix + ".wrong"} {
			_, err := uc.Authenticate(ctx, raw)
			assert.ErrorIs(t, err, ErrInvalidApiKey, raw)
		}
	})

	t.Run("revoked keys stop working", func(t *testing.T) {
		require.NoError(t, uc.Revoke(ctx, issued.ID))

		_, err := uc.Authenticate(ctx, issued.Key)
		assert.ErrorIs(t, err, ErrInvalidApiKey)

		list, err := uc.List(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, list.Total)
		assert.False(t, list.Keys[0].IsActive)
	})

	t.Run("revoking an unknown key", func(t *testing.T) {
		assert.ErrorIs(t, uc.Revoke(ctx, uuid.New()), ErrApiKeyNotFound)
	})

	t.Run("name is required", func(t *testing.T) {
		_, err := uc.Issue(ctx, &dto.CreateApiKeyRequest{Name: "  "})
		assert.ErrorIs(t, err, ErrNameRequired)
	})
}
