package bootstrap

import (
	"net/http"
	"time"

	"clinic-scheduler/config"
	deliveryHttp "clinic-scheduler/internal/delivery/http"
	"clinic-scheduler/internal/delivery/http/handler"
	"clinic-scheduler/internal/delivery/http/middleware"
	"clinic-scheduler/internal/domain/scheduling"
	"clinic-scheduler/internal/repository"
	"clinic-scheduler/internal/service"
	"clinic-scheduler/internal/usecase"
	"clinic-scheduler/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Components is the infrastructure the HTTP stack is assembled from.
// A nil Redis selects the no-op cache and the process-local booking locker.
type Components struct {
	DB              *gorm.DB
	Redis           *redis.Client
	Log             *logrus.Logger
	Location        *time.Location
	Env             string
	CORSOrigins     []string
	Scheduling      config.SchedulingConfig
	ConversationTTL time.Duration
	// Now overrides the clock; nil uses time.Now
	Now func() time.Time
}

// Usecases exposes the assembled usecases to commands that run without HTTP
type Usecases struct {
	Identity     usecase.IdentityUsecase
	Catalog      usecase.CatalogUsecase
	Appointments usecase.AppointmentUsecase
	Status       usecase.AppointmentStatusUsecase
	Conversation usecase.ConversationStateUsecase
	ApiKeys      usecase.ApiKeyUsecase
	AuditLogs    usecase.AuditLogUsecase
}

// NewUsecases wires repositories, services and usecases. The returned func stops
// background workers.
func NewUsecases(c Components) (*Usecases, func()) {
	// Initialize repositories
	personRepo := repository.NewPersonRepository()
	clientProfileRepo := repository.NewClientProfileRepository()
	professionalProfileRepo := repository.NewProfessionalProfileRepository()
	conversationStateRepo := repository.NewConversationStateRepository()
	serviceRepo := repository.NewServiceRepository()
	providerRepo := repository.NewServiceProviderRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	statusEventRepo := repository.NewStatusEventRepository()
	apiKeyRepo := repository.NewApiKeyRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(c.Log, auditLogRepo)
	recorder := service.NewStatusRecorder(c.Log, appointmentRepo, statusEventRepo, c.Location, c.Now)

	var (
		conversationCache service.ConversationCache
		locker            service.BookingLocker
	)
	if c.Redis != nil {
		conversationCache = service.NewRedisConversationCache(c.Redis, c.Log, c.ConversationTTL)
		locker = service.NewRedisBookingLocker(c.Redis, c.Log, c.Scheduling.LockTTL, c.Scheduling.LockAcquireTimeout)
	} else {
		conversationCache = service.NewNoopConversationCache()
		locker = service.NewLocalBookingLocker(c.Log)
	}

	// Initialize usecases
	usecases := &Usecases{
		Identity: usecase.NewIdentityUsecase(c.DB, c.Log, personRepo, clientProfileRepo, professionalProfileRepo, conversationStateRepo, auditService),
		Catalog:  usecase.NewCatalogUsecase(c.DB, c.Log, serviceRepo, providerRepo, personRepo, auditService),
		Appointments: usecase.NewAppointmentUsecase(usecase.AppointmentDeps{
			DB:              c.DB,
			Log:             c.Log,
			PersonRepo:      personRepo,
			ServiceRepo:     serviceRepo,
			ProviderRepo:    providerRepo,
			AppointmentRepo: appointmentRepo,
			StatusEventRepo: statusEventRepo,
			Recorder:        recorder,
			AuditService:    auditService,
			Policy:          scheduling.NewOverlapPolicy(c.Scheduling.RejectOverlaps),
			Locker:          locker,
			Location:        c.Location,
			Now:             c.Now,
		}),
		Status:       usecase.NewAppointmentStatusUsecase(c.DB, c.Log, appointmentRepo, recorder, auditService),
		Conversation: usecase.NewConversationStateUsecase(c.DB, c.Log, conversationStateRepo, clientProfileRepo, conversationCache, auditService),
		ApiKeys:      usecase.NewApiKeyUsecase(c.DB, c.Log, apiKeyRepo, auditService),
		AuditLogs:    usecase.NewAuditLogUsecase(c.DB, c.Log, auditLogRepo),
	}

	return usecases, locker.Stop
}

// NewHandler assembles the full HTTP handler. The returned func stops background workers.
func NewHandler(c Components) (http.Handler, func()) {
	usecases, stop := NewUsecases(c)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize router
	router := deliveryHttp.NewRouter(deliveryHttp.RouterDeps{
		HealthHandler:            handler.NewHealthHandler(c.DB, c.Redis, c.Env),
		PersonHandler:            handler.NewPersonHandler(usecases.Identity, customValidator),
		CatalogHandler:           handler.NewCatalogHandler(usecases.Catalog, customValidator),
		AppointmentHandler:       handler.NewAppointmentHandler(usecases.Appointments, usecases.Status, customValidator),
		ConversationStateHandler: handler.NewConversationStateHandler(usecases.Conversation, customValidator),
		ApiKeyHandler:            handler.NewApiKeyHandler(usecases.ApiKeys, customValidator),
		AuditLogHandler:          handler.NewAuditLogHandler(usecases.AuditLogs),
		ApiKeyMiddleware:         middleware.NewApiKeyMiddleware(usecases.ApiKeys),
		CORSMiddleware:           middleware.NewCORSMiddleware(c.CORSOrigins...),
		LoggingMiddleware:        middleware.NewLoggingMiddleware(c.Log),
	})

	return router.Setup(), stop
}
