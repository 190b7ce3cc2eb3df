package repository

import (
	"testing"

	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestConversationStateRepository_Upsert(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewConversationStateRepository()

	first := &entity.ConversationState{Handle: "573001234567", Payload: datatypes.JSON(`{"step":"greeting"}`)}
	require.NoError(t, repo.Upsert(db, first))
	require.NotZero(t, first.ID)

	second := &entity.ConversationState{Handle: "573001234567", Payload: datatypes.JSON(`{"step":"pick_service"}`)}
	require.NoError(t, repo.Upsert(db, second))
	assert.Equal(t, first.ID, second.ID)

	found, err := repo.FindByHandle(db, "573001234567")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.JSONEq(t, `{"step":"pick_service"}`, string(found.Payload))

	var count int64
	require.NoError(t, db.Model(&entity.ConversationState{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestConversationStateRepository_DeleteKeepsClient(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewConversationStateRepository()
	profiles := NewClientProfileRepository()

	state := &entity.ConversationState{Handle: "3009876543", Payload: datatypes.JSON(`{}`)}
	require.NoError(t, repo.Upsert(db, state))

	client := testutil.CreateClient(t, db)
	client.ClientProfile.ConversationStateID = &state.ID
	require.NoError(t, profiles.Update(db, client.ClientProfile))

	require.NoError(t, profiles.ClearConversationState(db, state.ID))
	require.NoError(t, repo.Delete(db, state.ID))

	gone, err := repo.FindByHandle(db, "3009876543")
	require.NoError(t, err)
	assert.Nil(t, gone)

	profile, err := profiles.FindByPersonID(db, client.ID)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Nil(t, profile.ConversationStateID)
}
