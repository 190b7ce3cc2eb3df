package scheduling

import (
	"time"

	"clinic-scheduler/internal/domain/entity"
)

// OverlapPolicy decides whether a professional may hold intersecting appointments.
// The engine itself never prevents double booking; the policy is injected.
type OverlapPolicy interface {
	// Enforced reports whether callers must load existing appointments for Check
	Enforced() bool
	Check(start, end time.Time, existing []entity.Appointment) error
}

// NewOverlapPolicy returns the rejecting policy when reject is true
func NewOverlapPolicy(reject bool) OverlapPolicy {
	if reject {
		return RejectOverlaps{}
	}
	return AllowOverlaps{}
}

// AllowOverlaps accepts any window
type AllowOverlaps struct{}

func (AllowOverlaps) Enforced() bool { return false }

func (AllowOverlaps) Check(time.Time, time.Time, []entity.Appointment) error { return nil }

// RejectOverlaps fails with ErrOverlap when a non-cancelled appointment intersects [start, end)
type RejectOverlaps struct{}

func (RejectOverlaps) Enforced() bool { return true }

func (RejectOverlaps) Check(start, end time.Time, existing []entity.Appointment) error {
	for i := range existing {
		appt := &existing[i]
		if appt.IsCancelled() {
			continue
		}
		if appt.Overlaps(start, end) {
			return &Violation{Kind: ErrOverlap, Field: "start_at", Value: appt.ID}
		}
	}
	return nil
}
