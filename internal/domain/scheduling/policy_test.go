package scheduling

import (
	"testing"
	"time"

	"clinic-scheduler/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func TestOverlapPolicy(t *testing.T) {
	base := time.Date(2024, 12, 25, 14, 0, 0, 0, time.UTC)
	existing := []entity.Appointment{
		{ID: 1, StartAt: base, EndAt: base.Add(time.Hour), CurrentStatus: &entity.StatusEvent{Status: entity.StatusScheduled}},
		{ID: 2, StartAt: base.Add(3 * time.Hour), EndAt: base.Add(4 * time.Hour), CurrentStatus: &entity.StatusEvent{Status: entity.StatusCancelled}},
	}

	t.Run("allow is never enforced", func(t *testing.T) {
		policy := NewOverlapPolicy(false)
		assert.False(t, policy.Enforced())
		assert.NoError(t, policy.Check(base, base.Add(30*time.Minute), existing))
	})

	t.Run("reject intersecting window", func(t *testing.T) {
		policy := NewOverlapPolicy(true)
		assert.True(t, policy.Enforced())
		assert.ErrorIs(t, policy.Check(base.Add(30*time.Minute), base.Add(90*time.Minute), existing), ErrOverlap)
	})

	t.Run("touching windows do not overlap", func(t *testing.T) {
		policy := RejectOverlaps{}
		assert.NoError(t, policy.Check(base.Add(time.Hour), base.Add(2*time.Hour), existing))
		assert.NoError(t, policy.Check(base.Add(-time.Hour), base, existing))
	})

	t.Run("cancelled appointments are ignored", func(t *testing.T) {
		policy := RejectOverlaps{}
		assert.NoError(t, policy.Check(base.Add(3*time.Hour), base.Add(4*time.Hour), existing))
	})
}
