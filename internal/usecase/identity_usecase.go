package usecase

import (
	"context"
	"strings"

	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"
	"clinic-scheduler/internal/domain/scheduling"
	"clinic-scheduler/internal/service"
	"clinic-scheduler/pkg/validator"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// IdentityUsecase registers and reads clients and professionals
type IdentityUsecase interface {
	RegisterClient(ctx context.Context, req *dto.RegisterClientRequest) (*dto.PersonResponse, error)
	RegisterProfessional(ctx context.Context, req *dto.RegisterProfessionalRequest) (*dto.PersonResponse, error)
	GetPerson(ctx context.Context, id uint) (*dto.PersonResponse, error)
	GetPersonByDocument(ctx context.Context, documentNumber string) (*dto.PersonResponse, error)
	ListPersons(ctx context.Context, role entity.Role) (*dto.PersonListResponse, error)
	UpdateClientProfile(ctx context.Context, id uint, req *dto.UpdateClientProfileRequest) (*dto.PersonResponse, error)
}

type identityUsecase struct {
	db                      *gorm.DB
	log                     *logrus.Logger
	personRepo              repository.PersonRepository
	clientProfileRepo       repository.ClientProfileRepository
	professionalProfileRepo repository.ProfessionalProfileRepository
	conversationStateRepo   repository.ConversationStateRepository
	auditService            service.AuditService
}

func NewIdentityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	personRepo repository.PersonRepository,
	clientProfileRepo repository.ClientProfileRepository,
	professionalProfileRepo repository.ProfessionalProfileRepository,
	conversationStateRepo repository.ConversationStateRepository,
	auditService service.AuditService,
) IdentityUsecase {
	return &identityUsecase{
		db:                      db,
		log:                     log,
		personRepo:              personRepo,
		clientProfileRepo:       clientProfileRepo,
		professionalProfileRepo: professionalProfileRepo,
		conversationStateRepo:   conversationStateRepo,
		auditService:            auditService,
	}
}

func (u *identityUsecase) RegisterClient(ctx context.Context, req *dto.RegisterClientRequest) (*dto.PersonResponse, error) {
	person := newPerson(&req.PersonFields, entity.RoleClient)
	if err := scheduling.Aggregate(checkPerson(person), checkAge(req.Age)); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if req.ConversationStateID != nil {
		state, err := u.conversationStateRepo.FindByID(tx, *req.ConversationStateID)
		if err != nil {
			u.log.Warnf("Failed to find conversation state %d: %+v", *req.ConversationStateID, err)
			return nil, err
		}
		if state == nil {
			return nil, scheduling.NewNotFound("conversation_state", *req.ConversationStateID)
		}
	}

	if err := u.createPerson(tx, person); err != nil {
		return nil, err
	}

	person.ClientProfile = &entity.ClientProfile{
		PersonID:            person.ID,
		Age:                 req.Age,
		GuardianName:        trimOptional(req.GuardianName),
		Neighborhood:        trimOptional(req.Neighborhood),
		Address:             trimOptional(req.Address),
		ReferredBySchool:    req.ReferredBySchool,
		SchoolName:          trimOptional(req.SchoolName),
		ConversationStateID: req.ConversationStateID,
	}
	if err := u.clientProfileRepo.Create(tx, person.ClientProfile); err != nil {
		u.log.Warnf("Failed to create client profile: %+v", err)
		return nil, err
	}

	response := converter.PersonToResponse(person)
	if err := u.auditService.LogCreate(ctx, tx, entity.AuditActionClientRegister, "person", person.ID, response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Client registered: id=%d", person.ID)
	return response, nil
}

func (u *identityUsecase) RegisterProfessional(ctx context.Context, req *dto.RegisterProfessionalRequest) (*dto.PersonResponse, error) {
	person := newPerson(&req.PersonFields, entity.RoleProfessional)
	handle := strings.TrimSpace(req.MessagingHandle)

	var handleErr error
	if !validator.IsPhone(handle) {
		handleErr = &scheduling.Violation{Kind: ErrInvalidPhone, Field: "messaging_handle", Value: req.MessagingHandle}
	}
	if err := scheduling.Aggregate(checkPerson(person), handleErr); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	existing, err := u.professionalProfileRepo.FindByHandle(tx, handle)
	if err != nil {
		u.log.Warnf("Failed to find professional by handle: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrHandleExists
	}

	if err := u.createPerson(tx, person); err != nil {
		return nil, err
	}

	person.ProfessionalProfile = &entity.ProfessionalProfile{
		PersonID:        person.ID,
		MessagingHandle: handle,
		Title:           trimOptional(req.Title),
	}
	if err := u.professionalProfileRepo.Create(tx, person.ProfessionalProfile); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrHandleExists
		}
		u.log.Warnf("Failed to create professional profile: %+v", err)
		return nil, err
	}

	response := converter.PersonToResponse(person)
	if err := u.auditService.LogCreate(ctx, tx, entity.AuditActionProfessionalRegister, "person", person.ID, response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Professional registered: id=%d", person.ID)
	return response, nil
}

func (u *identityUsecase) GetPerson(ctx context.Context, id uint) (*dto.PersonResponse, error) {
	person, err := u.personRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find person %d: %+v", id, err)
		return nil, err
	}
	if person == nil {
		return nil, scheduling.NewNotFound("person", id)
	}

	return converter.PersonToResponse(person), nil
}

func (u *identityUsecase) GetPersonByDocument(ctx context.Context, documentNumber string) (*dto.PersonResponse, error) {
	person, err := u.personRepo.FindByDocumentNumber(u.db.WithContext(ctx), strings.TrimSpace(documentNumber))
	if err != nil {
		u.log.Warnf("Failed to find person by document: %+v", err)
		return nil, err
	}
	if person == nil {
		return nil, scheduling.NewNotFound("person", documentNumber)
	}

	return converter.PersonToResponse(person), nil
}

func (u *identityUsecase) ListPersons(ctx context.Context, role entity.Role) (*dto.PersonListResponse, error) {
	if role != "" && !role.IsValid() {
		return nil, scheduling.Aggregate(&scheduling.Violation{Kind: scheduling.ErrInvalidRole, Field: "role", Value: string(role)})
	}

	persons, err := u.personRepo.FindAll(u.db.WithContext(ctx), role)
	if err != nil {
		u.log.Warnf("Failed to find persons: %+v", err)
		return nil, err
	}

	return &dto.PersonListResponse{
		Persons: converter.PersonsToResponses(persons),
		Total:   len(persons),
	}, nil
}

// UpdateClientProfile edits contact and profile fields of a client. The role is never changed.
func (u *identityUsecase) UpdateClientProfile(ctx context.Context, id uint, req *dto.UpdateClientProfileRequest) (*dto.PersonResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	person, err := u.personRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find person %d: %+v", id, err)
		return nil, err
	}
	if person == nil {
		return nil, scheduling.NewNotFound("person", id)
	}
	if err := scheduling.Aggregate(scheduling.ValidateRole("id", person, entity.RoleClient)); err != nil {
		return nil, err
	}

	oldValue := converter.PersonToResponse(person)
	profile := person.ClientProfile

	// set person & profile
	if req.Phone != nil {
		person.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		person.Email = normalizeEmail(req.Email)
	}
	if req.Age != nil {
		profile.Age = req.Age
	}
	if req.GuardianName != nil {
		profile.GuardianName = trimOptional(req.GuardianName)
	}
	if req.Neighborhood != nil {
		profile.Neighborhood = trimOptional(req.Neighborhood)
	}
	if req.Address != nil {
		profile.Address = trimOptional(req.Address)
	}
	if req.ReferredBySchool != nil {
		profile.ReferredBySchool = *req.ReferredBySchool
	}
	if req.SchoolName != nil {
		profile.SchoolName = trimOptional(req.SchoolName)
	}
	if req.ConversationStateID != nil {
		state, err := u.conversationStateRepo.FindByID(tx, *req.ConversationStateID)
		if err != nil {
			u.log.Warnf("Failed to find conversation state %d: %+v", *req.ConversationStateID, err)
			return nil, err
		}
		if state == nil {
			return nil, scheduling.NewNotFound("conversation_state", *req.ConversationStateID)
		}
		profile.ConversationStateID = req.ConversationStateID
	}

	if err := scheduling.Aggregate(checkPhone("phone", person.Phone), checkAge(profile.Age)); err != nil {
		return nil, err
	}

	if req.Email != nil && person.Email != nil {
		other, err := u.personRepo.FindByEmail(tx, *person.Email)
		if err != nil {
			u.log.Warnf("Failed to find person by email: %+v", err)
			return nil, err
		}
		if other != nil && other.ID != person.ID {
			return nil, ErrEmailExists
		}
	}

	if err := u.personRepo.Update(tx, person); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		u.log.Warnf("Failed to update person %d: %+v", id, err)
		return nil, err
	}
	if err := u.clientProfileRepo.Update(tx, profile); err != nil {
		u.log.Warnf("Failed to update client profile %d: %+v", id, err)
		return nil, err
	}

	newValue := converter.PersonToResponse(person)
	if err := u.auditService.LogUpdate(ctx, tx, entity.AuditActionClientUpdate, "person", person.ID, oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return newValue, nil
}

// createPerson rejects duplicate documents and emails before insert and maps the
// constraint error when a concurrent registration wins the race.
func (u *identityUsecase) createPerson(tx *gorm.DB, person *entity.Person) error {
	existing, err := u.personRepo.FindByDocumentNumber(tx, person.DocumentNumber)
	if err != nil {
		u.log.Warnf("Failed to find person by document: %+v", err)
		return err
	}
	if existing != nil {
		return ErrDocumentExists
	}

	if person.Email != nil {
		existing, err := u.personRepo.FindByEmail(tx, *person.Email)
		if err != nil {
			u.log.Warnf("Failed to find person by email: %+v", err)
			return err
		}
		if existing != nil {
			return ErrEmailExists
		}
	}

	if err := u.personRepo.Create(tx, person); err != nil {
		switch {
		case isDuplicateKeyError(err, "document_number"):
			return ErrDocumentExists
		case isDuplicateKeyError(err, "email"):
			return ErrEmailExists
		}
		u.log.Warnf("Failed to create person: %+v", err)
		return err
	}
	return nil
}

func newPerson(fields *dto.PersonFields, role entity.Role) *entity.Person {
	return &entity.Person{
		GivenNames:     strings.TrimSpace(fields.GivenNames),
		FamilyNames:    strings.TrimSpace(fields.FamilyNames),
		DocumentType:   entity.DocumentType(strings.ToUpper(strings.TrimSpace(fields.DocumentType))),
		DocumentNumber: strings.TrimSpace(fields.DocumentNumber),
		Email:          normalizeEmail(fields.Email),
		Phone:          strings.TrimSpace(fields.Phone),
		Role:           role,
	}
}

func checkPerson(person *entity.Person) error {
	var errs []error
	if person.GivenNames == "" {
		errs = append(errs, &scheduling.Violation{Kind: ErrNameRequired, Field: "given_names"})
	}
	if person.FamilyNames == "" {
		errs = append(errs, &scheduling.Violation{Kind: ErrNameRequired, Field: "family_names"})
	}
	if !person.DocumentType.IsValid() {
		errs = append(errs, &scheduling.Violation{Kind: ErrInvalidDocumentType, Field: "document_type", Value: string(person.DocumentType)})
	}
	if person.DocumentNumber == "" {
		errs = append(errs, &scheduling.Violation{Kind: ErrNameRequired, Field: "document_number", Detail: "document number is required"})
	}
	errs = append(errs, checkPhone("phone", person.Phone))
	return scheduling.Aggregate(errs...)
}

func checkPhone(field, phone string) error {
	if !validator.IsPhone(phone) {
		return &scheduling.Violation{Kind: ErrInvalidPhone, Field: field, Value: phone}
	}
	return nil
}

func checkAge(age *int) error {
	if age != nil && (*age < entity.MinClientAge || *age > entity.MaxClientAge) {
		return &scheduling.Violation{Kind: ErrInvalidAge, Field: "age", Value: *age}
	}
	return nil
}

// normalizeEmail maps blank emails to NULL so the unique index ignores them
func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	trimmed := strings.ToLower(strings.TrimSpace(*email))
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
