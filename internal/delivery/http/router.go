package http

import (
	"net/http"

	"clinic-scheduler/internal/delivery/http/handler"
	"clinic-scheduler/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router                   *mux.Router
	healthHandler            *handler.HealthHandler
	personHandler            *handler.PersonHandler
	catalogHandler           *handler.CatalogHandler
	appointmentHandler       *handler.AppointmentHandler
	conversationStateHandler *handler.ConversationStateHandler
	apiKeyHandler            *handler.ApiKeyHandler
	auditLogHandler          *handler.AuditLogHandler
	apiKeyMiddleware         *middleware.ApiKeyMiddleware
	corsMiddleware           *middleware.CORSMiddleware
	loggingMiddleware        *middleware.LoggingMiddleware
}

type RouterDeps struct {
	HealthHandler            *handler.HealthHandler
	PersonHandler            *handler.PersonHandler
	CatalogHandler           *handler.CatalogHandler
	AppointmentHandler       *handler.AppointmentHandler
	ConversationStateHandler *handler.ConversationStateHandler
	ApiKeyHandler            *handler.ApiKeyHandler
	AuditLogHandler          *handler.AuditLogHandler
	ApiKeyMiddleware         *middleware.ApiKeyMiddleware
	CORSMiddleware           *middleware.CORSMiddleware
	LoggingMiddleware        *middleware.LoggingMiddleware
}

func NewRouter(deps RouterDeps) *Router {
	return &Router{
		router:                   mux.NewRouter(),
		healthHandler:            deps.HealthHandler,
		personHandler:            deps.PersonHandler,
		catalogHandler:           deps.CatalogHandler,
		appointmentHandler:       deps.AppointmentHandler,
		conversationStateHandler: deps.ConversationStateHandler,
		apiKeyHandler:            deps.ApiKeyHandler,
		auditLogHandler:          deps.AuditLogHandler,
		apiKeyMiddleware:         deps.ApiKeyMiddleware,
		corsMiddleware:           deps.CORSMiddleware,
		loggingMiddleware:        deps.LoggingMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	r.router.Use(r.loggingMiddleware.RequestID, r.loggingMiddleware.Log, r.corsMiddleware.Handle)

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check (public)
	api.HandleFunc("/health", r.healthHandler.Check).Methods(http.MethodGet)

	// CORS preflight never carries credentials
	api.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Everything else requires an api key
	protected := api.NewRoute().Subrouter()
	protected.Use(r.apiKeyMiddleware.Authenticate)

	// Identity registry
	protected.HandleFunc("/clients", r.personHandler.RegisterClient).Methods(http.MethodPost)
	protected.HandleFunc("/clients/{id:[0-9]+}", r.personHandler.UpdateClientProfile).Methods(http.MethodPatch)
	protected.HandleFunc("/professionals", r.personHandler.RegisterProfessional).Methods(http.MethodPost)
	protected.HandleFunc("/persons", r.personHandler.ListPersons).Methods(http.MethodGet)
	protected.HandleFunc("/persons/{id:[0-9]+}", r.personHandler.GetPerson).Methods(http.MethodGet)
	protected.HandleFunc("/persons/by-document/{document}", r.personHandler.GetPersonByDocument).Methods(http.MethodGet)

	// Catalog and eligibility
	protected.HandleFunc("/services", r.catalogHandler.CreateService).Methods(http.MethodPost)
	protected.HandleFunc("/services", r.catalogHandler.ListServices).Methods(http.MethodGet)
	protected.HandleFunc("/services/{id:[0-9]+}", r.catalogHandler.GetService).Methods(http.MethodGet)
	protected.HandleFunc("/services/{id:[0-9]+}", r.catalogHandler.UpdateService).Methods(http.MethodPatch)
	protected.HandleFunc("/services/{id:[0-9]+}/professionals", r.catalogHandler.AssignProvider).Methods(http.MethodPost)
	protected.HandleFunc("/services/{id:[0-9]+}/professionals", r.catalogHandler.ListProfessionalsForService).Methods(http.MethodGet)
	protected.HandleFunc("/services/{id:[0-9]+}/professionals/{professionalId:[0-9]+}", r.catalogHandler.UnassignProvider).Methods(http.MethodDelete)
	protected.HandleFunc("/professionals/{id:[0-9]+}/services", r.catalogHandler.ListServicesForProfessional).Methods(http.MethodGet)

	// Appointment ledger and status engine
	protected.HandleFunc("/appointments", r.appointmentHandler.CreateAppointment).Methods(http.MethodPost)
	protected.HandleFunc("/appointments", r.appointmentHandler.ListAppointments).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/today", r.appointmentHandler.TodayAppointments).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id:[0-9]+}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id:[0-9]+}", r.appointmentHandler.UpdateAppointment).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{id:[0-9]+}/status", r.appointmentHandler.GetCurrentStatus).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id:[0-9]+}/status", r.appointmentHandler.Transition).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{id:[0-9]+}/history", r.appointmentHandler.GetHistory).Methods(http.MethodGet)

	// Bot conversation states
	protected.HandleFunc("/conversations/{handle}", r.conversationStateHandler.GetState).Methods(http.MethodGet)
	protected.HandleFunc("/conversations/{handle}", r.conversationStateHandler.UpsertState).Methods(http.MethodPut)
	protected.HandleFunc("/conversations/{handle}", r.conversationStateHandler.DeleteState).Methods(http.MethodDelete)

	// Api keys
	protected.HandleFunc("/api-keys", r.apiKeyHandler.IssueKey).Methods(http.MethodPost)
	protected.HandleFunc("/api-keys", r.apiKeyHandler.ListKeys).Methods(http.MethodGet)
	protected.HandleFunc("/api-keys/{id}", r.apiKeyHandler.RevokeKey).Methods(http.MethodDelete)

	// Audit trail
	protected.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	protected.HandleFunc("/audit-logs/{id:[0-9]+}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	return r.router
}
