package scheduling

import "clinic-scheduler/internal/domain/entity"

// Eligibility answers whether a professional may be assigned to a service
type Eligibility interface {
	IsEligible(serviceID, professionalID uint) bool
}

type providerPair struct {
	serviceID      uint
	professionalID uint
}

// ProviderSet is an in-memory snapshot of ServiceProvider edges
type ProviderSet map[providerPair]struct{}

// NewProviderSet builds a snapshot from loaded edges
func NewProviderSet(edges []entity.ServiceProvider) ProviderSet {
	set := make(ProviderSet, len(edges))
	for _, edge := range edges {
		set[providerPair{edge.ServiceID, edge.ProfessionalID}] = struct{}{}
	}
	return set
}

func (s ProviderSet) IsEligible(serviceID, professionalID uint) bool {
	_, ok := s[providerPair{serviceID, professionalID}]
	return ok
}
