package scheduling

import (
	"time"

	"clinic-scheduler/internal/domain/entity"

	"github.com/sourcegraph/conc/iter"
)

// Check is one independent validation
type Check func() error

// Validate runs every check concurrently and aggregates all failures in check order.
// Checks must not share mutable state.
func Validate(checks ...Check) error {
	results := iter.Map(checks, func(check *Check) error {
		return (*check)()
	})
	return Aggregate(results...)
}

// ValidateTimeWindow fails with ErrInvalidWindow when start is not strictly before end
func ValidateTimeWindow(start, end time.Time) error {
	if !start.Before(end) {
		return &Violation{Kind: ErrInvalidWindow, Field: "end_at", Value: end}
	}
	return nil
}

// ValidateRole fails with ErrInvalidRole when the person's role tag differs from
// expected or the matching side profile is missing.
func ValidateRole(field string, person *entity.Person, expected entity.Role) error {
	if person == nil || person.Role != expected {
		return &Violation{Kind: ErrInvalidRole, Field: field, Value: personID(person), Detail: "person must have role " + string(expected)}
	}
	profile := person.Profile()
	if profile == nil || profile.Role() != expected {
		return &Violation{Kind: ErrInvalidRole, Field: field, Value: person.ID, Detail: "person has no " + string(expected) + " profile"}
	}
	return nil
}

// ValidateEligibility fails with ErrNotEligible when no ServiceProvider edge exists
func ValidateEligibility(eligibility Eligibility, serviceID, professionalID uint) error {
	if eligibility == nil || !eligibility.IsEligible(serviceID, professionalID) {
		return &Violation{Kind: ErrNotEligible, Field: "professional_id", Value: professionalID}
	}
	return nil
}

// ValidateStatus fails with ErrInvalidStatus for values outside the closed status set
func ValidateStatus(status entity.AppointmentStatus) error {
	if !status.IsValid() {
		return &Violation{Kind: ErrInvalidStatus, Field: "status", Value: string(status)}
	}
	return nil
}

func personID(p *entity.Person) any {
	if p == nil {
		return nil
	}
	return p.ID
}
