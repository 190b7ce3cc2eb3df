package main

import (
	"context"
	"fmt"
	"time"

	"clinic-scheduler/cmd/bootstrap"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/sirupsen/logrus"
)

type counts struct {
	Professionals int
	Clients       int
	Appointments  int
}

var serviceNames = []string{
	"Speech therapy",
	"Occupational therapy",
	"Psychology",
	"Neuropsychology",
	"Physiotherapy",
	"Learning support",
}

var documentTypes = []string{string(entity.DocumentNationalID), string(entity.DocumentMinorID), string(entity.DocumentTaxID)}

type seeder struct {
	uc    *bootstrap.Usecases
	faker *gofakeit.Faker
	log   *logrus.Logger
	loc   *time.Location
}

// run fills the catalog, registers people and books appointments on consecutive
// working-hour slots starting tomorrow. Every write goes through the usecases.
func (s *seeder) run(ctx context.Context, n counts) error {
	services := make([]*dto.ServiceResponse, 0, len(serviceNames))
	for _, name := range serviceNames {
		svc, err := s.uc.Catalog.CreateService(ctx, &dto.CreateServiceRequest{
			Name:            name,
			DurationMinutes: []int{30, 45, 50, 60}[s.faker.Number(0, 3)],
		})
		if err != nil {
			return fmt.Errorf("seed service %q: %w", name, err)
		}
		services = append(services, svc)
	}
	s.log.Infof("Seeded %d services", len(services))

	type provider struct {
		professional *dto.PersonResponse
		services     []*dto.ServiceResponse
	}
	providers := make([]provider, 0, n.Professionals)
	for i := 0; i < n.Professionals; i++ {
		handle := s.faker.Numerify("310#######")
		professional, err := s.uc.Identity.RegisterProfessional(ctx, &dto.RegisterProfessionalRequest{
			PersonFields:    s.personFields(handle),
			MessagingHandle: handle,
		})
		if err != nil {
			return fmt.Errorf("seed professional: %w", err)
		}

		p := provider{professional: professional}
		for _, svc := range services {
			if !s.faker.Bool() && len(p.services) > 0 {
				continue
			}
			if _, err := s.uc.Catalog.Assign(ctx, svc.ID, professional.ID); err != nil {
				return fmt.Errorf("assign professional %d to service %d: %w", professional.ID, svc.ID, err)
			}
			p.services = append(p.services, svc)
		}
		providers = append(providers, p)
	}
	s.log.Infof("Seeded %d professionals", len(providers))

	clients := make([]*dto.PersonResponse, 0, n.Clients)
	for i := 0; i < n.Clients; i++ {
		age := s.faker.Number(entity.MinClientAge, entity.MaxClientAge)
		client, err := s.uc.Identity.RegisterClient(ctx, &dto.RegisterClientRequest{
			PersonFields: s.personFields(s.faker.Numerify("300#######")),
			Age:          &age,
		})
		if err != nil {
			return fmt.Errorf("seed client: %w", err)
		}
		clients = append(clients, client)
	}
	s.log.Infof("Seeded %d clients", len(clients))

	if len(providers) == 0 || len(clients) == 0 {
		return nil
	}

	now := time.Now().In(s.loc)
	day := time.Date(now.Year(), now.Month(), now.Day()+1, 8, 0, 0, 0, s.loc)
	next := make(map[uint]time.Time, len(providers))

	for i := 0; i < n.Appointments; i++ {
		p := providers[i%len(providers)]
		svc := p.services[s.faker.Number(0, len(p.services)-1)]
		client := clients[s.faker.Number(0, len(clients)-1)]

		start, ok := next[p.professional.ID]
		if !ok {
			start = day
		}
		end := start.Add(time.Duration(svc.DurationMinutes) * time.Minute)
		if end.Hour() >= 18 {
			start = time.Date(start.Year(), start.Month(), start.Day()+1, 8, 0, 0, 0, s.loc)
			end = start.Add(time.Duration(svc.DurationMinutes) * time.Minute)
		}
		next[p.professional.ID] = end

		professionalID := p.professional.ID
		if _, err := s.uc.Appointments.Create(ctx, &dto.CreateAppointmentRequest{
			ClientID:       client.ID,
			ServiceID:      svc.ID,
			ProfessionalID: &professionalID,
			StartAt:        start.UTC(),
			EndAt:          end.UTC(),
		}); err != nil {
			return fmt.Errorf("seed appointment: %w", err)
		}
	}
	s.log.Infof("Seeded %d appointments", n.Appointments)

	return nil
}

func (s *seeder) personFields(phone string) dto.PersonFields {
	email := s.faker.Email()
	return dto.PersonFields{
		GivenNames:     s.faker.FirstName(),
		FamilyNames:    s.faker.LastName(),
		DocumentType:   documentTypes[s.faker.Number(0, len(documentTypes)-1)],
		DocumentNumber: s.faker.Numerify("##########"),
		Email:          &email,
		Phone:          phone,
	}
}
