package usecase

import (
	"context"
	"fmt"
	"strings"

	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"
	"clinic-scheduler/internal/domain/scheduling"
	"clinic-scheduler/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CatalogUsecase manages services and which professionals may deliver them
type CatalogUsecase interface {
	CreateService(ctx context.Context, req *dto.CreateServiceRequest) (*dto.ServiceResponse, error)
	UpdateService(ctx context.Context, id uint, req *dto.UpdateServiceRequest) (*dto.ServiceResponse, error)
	GetService(ctx context.Context, id uint) (*dto.ServiceResponse, error)
	ListServices(ctx context.Context, botBookableOnly bool) (*dto.ServiceListResponse, error)
	Assign(ctx context.Context, serviceID, professionalID uint) (*dto.ServiceProviderResponse, error)
	Unassign(ctx context.Context, serviceID, professionalID uint) error
	ListServicesFor(ctx context.Context, professionalID uint) (*dto.ServiceListResponse, error)
	ListProfessionalsFor(ctx context.Context, serviceID uint) (*dto.PersonListResponse, error)
}

type catalogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	serviceRepo  repository.ServiceRepository
	providerRepo repository.ServiceProviderRepository
	personRepo   repository.PersonRepository
	auditService service.AuditService
}

func NewCatalogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	serviceRepo repository.ServiceRepository,
	providerRepo repository.ServiceProviderRepository,
	personRepo repository.PersonRepository,
	auditService service.AuditService,
) CatalogUsecase {
	return &catalogUsecase{
		db:           db,
		log:          log,
		serviceRepo:  serviceRepo,
		providerRepo: providerRepo,
		personRepo:   personRepo,
		auditService: auditService,
	}
}

func (u *catalogUsecase) CreateService(ctx context.Context, req *dto.CreateServiceRequest) (*dto.ServiceResponse, error) {
	svc := &entity.Service{
		Name:            strings.TrimSpace(req.Name),
		Description:     trimOptional(req.Description),
		BotBookable:     true,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
	}
	if req.BotBookable != nil {
		svc.BotBookable = *req.BotBookable
	}
	if err := checkService(svc); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.serviceRepo.Create(tx, svc); err != nil {
		u.log.Warnf("Failed to create service: %+v", err)
		return nil, err
	}

	response := converter.ServiceToResponse(svc)
	if err := u.auditService.LogCreate(ctx, tx, entity.AuditActionServiceCreate, "service", svc.ID, response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return response, nil
}

func (u *catalogUsecase) UpdateService(ctx context.Context, id uint, req *dto.UpdateServiceRequest) (*dto.ServiceResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	svc, err := u.serviceRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find service %d: %+v", id, err)
		return nil, err
	}
	if svc == nil {
		return nil, scheduling.NewNotFound("service", id)
	}

	oldValue := converter.ServiceToResponse(svc)

	if req.Name != nil {
		svc.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		svc.Description = trimOptional(req.Description)
	}
	if req.BotBookable != nil {
		svc.BotBookable = *req.BotBookable
	}
	if req.DurationMinutes != nil {
		svc.DurationMinutes = *req.DurationMinutes
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if err := checkService(svc); err != nil {
		return nil, err
	}

	if err := u.serviceRepo.Update(tx, svc); err != nil {
		u.log.Warnf("Failed to update service %d: %+v", id, err)
		return nil, err
	}

	newValue := converter.ServiceToResponse(svc)
	if err := u.auditService.LogUpdate(ctx, tx, entity.AuditActionServiceUpdate, "service", svc.ID, oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return newValue, nil
}

func (u *catalogUsecase) GetService(ctx context.Context, id uint) (*dto.ServiceResponse, error) {
	svc, err := u.serviceRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find service %d: %+v", id, err)
		return nil, err
	}
	if svc == nil {
		return nil, scheduling.NewNotFound("service", id)
	}

	return converter.ServiceToResponse(svc), nil
}

func (u *catalogUsecase) ListServices(ctx context.Context, botBookableOnly bool) (*dto.ServiceListResponse, error) {
	services, err := u.serviceRepo.FindAll(u.db.WithContext(ctx), botBookableOnly)
	if err != nil {
		u.log.Warnf("Failed to find services: %+v", err)
		return nil, err
	}

	return &dto.ServiceListResponse{
		Services: converter.ServicesToResponses(services),
		Total:    len(services),
	}, nil
}

// Assign authorizes a professional for a service. The pair must not exist yet.
func (u *catalogUsecase) Assign(ctx context.Context, serviceID, professionalID uint) (*dto.ServiceProviderResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	svc, err := u.serviceRepo.FindByID(tx, serviceID)
	if err != nil {
		u.log.Warnf("Failed to find service %d: %+v", serviceID, err)
		return nil, err
	}
	if svc == nil {
		return nil, scheduling.NewNotFound("service", serviceID)
	}

	professional, err := u.personRepo.FindByID(tx, professionalID)
	if err != nil {
		u.log.Warnf("Failed to find professional %d: %+v", professionalID, err)
		return nil, err
	}
	if professional == nil {
		return nil, scheduling.NewNotFound("professional", professionalID)
	}
	if err := scheduling.Aggregate(scheduling.ValidateRole("professional_id", professional, entity.RoleProfessional)); err != nil {
		return nil, err
	}

	exists, err := u.providerRepo.Exists(tx, serviceID, professionalID)
	if err != nil {
		u.log.Warnf("Failed to check service provider: %+v", err)
		return nil, err
	}
	if exists {
		return nil, duplicateAssignment(serviceID, professionalID)
	}

	edge := &entity.ServiceProvider{ServiceID: serviceID, ProfessionalID: professionalID}
	if err := u.providerRepo.Create(tx, edge); err != nil {
		if isUniqueViolation(err) {
			return nil, duplicateAssignment(serviceID, professionalID)
		}
		u.log.Warnf("Failed to create service provider: %+v", err)
		return nil, err
	}

	response := converter.ServiceProviderToResponse(edge)
	if err := u.auditService.LogCreate(ctx, tx, entity.AuditActionProviderAssign, "service_provider", edge.ID, response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return response, nil
}

// Unassign removes the edge. Existing appointments keep their professional.
func (u *catalogUsecase) Unassign(ctx context.Context, serviceID, professionalID uint) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	affected, err := u.providerRepo.Delete(tx, serviceID, professionalID)
	if err != nil {
		u.log.Warnf("Failed to delete service provider: %+v", err)
		return err
	}
	if affected == 0 {
		return scheduling.NewNotFound("service_provider", fmt.Sprintf("%d/%d", serviceID, professionalID))
	}

	pair := map[string]uint{"service_id": serviceID, "professional_id": professionalID}
	if err := u.auditService.LogDelete(ctx, tx, entity.AuditActionProviderUnassign, "service_provider", pair, pair); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

func (u *catalogUsecase) ListServicesFor(ctx context.Context, professionalID uint) (*dto.ServiceListResponse, error) {
	db := u.db.WithContext(ctx)

	professional, err := u.personRepo.FindByID(db, professionalID)
	if err != nil {
		u.log.Warnf("Failed to find professional %d: %+v", professionalID, err)
		return nil, err
	}
	if professional == nil || professional.Role != entity.RoleProfessional {
		return nil, scheduling.NewNotFound("professional", professionalID)
	}

	services, err := u.providerRepo.FindServicesByProfessional(db, professionalID)
	if err != nil {
		u.log.Warnf("Failed to find services for professional %d: %+v", professionalID, err)
		return nil, err
	}

	return &dto.ServiceListResponse{
		Services: converter.ServicesToResponses(services),
		Total:    len(services),
	}, nil
}

func (u *catalogUsecase) ListProfessionalsFor(ctx context.Context, serviceID uint) (*dto.PersonListResponse, error) {
	db := u.db.WithContext(ctx)

	svc, err := u.serviceRepo.FindByID(db, serviceID)
	if err != nil {
		u.log.Warnf("Failed to find service %d: %+v", serviceID, err)
		return nil, err
	}
	if svc == nil {
		return nil, scheduling.NewNotFound("service", serviceID)
	}

	persons, err := u.providerRepo.FindProfessionalsByService(db, serviceID)
	if err != nil {
		u.log.Warnf("Failed to find professionals for service %d: %+v", serviceID, err)
		return nil, err
	}

	return &dto.PersonListResponse{
		Persons: converter.PersonsToResponses(persons),
		Total:   len(persons),
	}, nil
}

func checkService(svc *entity.Service) error {
	var errs []error
	if svc.Name == "" {
		errs = append(errs, &scheduling.Violation{Kind: ErrNameRequired, Field: "name"})
	}
	if svc.DurationMinutes <= 0 {
		errs = append(errs, &scheduling.Violation{Kind: ErrInvalidDuration, Field: "duration_minutes", Value: svc.DurationMinutes})
	}
	return scheduling.Aggregate(errs...)
}

func duplicateAssignment(serviceID, professionalID uint) error {
	return fmt.Errorf("%w: service %d, professional %d", scheduling.ErrDuplicateAssignment, serviceID, professionalID)
}
