package usecase

import (
	"context"
	"testing"

	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestAuditLogUsecase(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	uc := NewAuditLogUsecase(env.db, env.log, repository.NewAuditLogRepository())

	for _, action := range []string{"first", "second", "third"} {
		require.NoError(t, env.db.Create(&entity.AuditLog{
			Actor:    "system",
			Action:   action,
			Metadata: datatypes.JSONMap{"entity": "appointment"},
		}).Error)
	}

	t.Run("pages newest first", func(t *testing.T) {
		page, err := uc.GetAllAuditLogs(ctx, 2, 0)
		require.NoError(t, err)
		assert.EqualValues(t, 3, page.Total)
		require.Len(t, page.Logs, 2)
		assert.Equal(t, "third", page.Logs[0].Action)
		assert.Equal(t, "second", page.Logs[1].Action)

		page, err = uc.GetAllAuditLogs(ctx, 2, 2)
		require.NoError(t, err)
		require.Len(t, page.Logs, 1)
		assert.Equal(t, "first", page.Logs[0].Action)
	})

	t.Run("non-positive limit uses the default page", func(t *testing.T) {
		page, err := uc.GetAllAuditLogs(ctx, 0, -5)
		require.NoError(t, err)
		assert.Len(t, page.Logs, 3)
	})

	t.Run("get by id", func(t *testing.T) {
		page, err := uc.GetAllAuditLogs(ctx, 1, 0)
		require.NoError(t, err)

		got, err := uc.GetAuditLog(ctx, page.Logs[0].ID)
		require.NoError(t, err)
		assert.Equal(t, "third", got.Action)
		assert.Equal(t, "system", got.Actor)

		_, err = uc.GetAuditLog(ctx, 9999)
		assert.ErrorIs(t, err, ErrAuditLogNotFound)
	})
}
