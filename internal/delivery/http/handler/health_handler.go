package handler

import (
	"context"
	"net/http"
	"time"

	"clinic-scheduler/pkg/response"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
	env   string
}

// NewHealthHandler creates the health handler. A nil redis client is reported as disabled.
func NewHealthHandler(db *gorm.DB, redis *redis.Client, env string) *HealthHandler {
	return &HealthHandler{
		db:    db,
		redis: redis,
		env:   env,
	}
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Env          string            `json:"env,omitempty"`
	Dependencies map[string]string `json:"dependencies"`
}

// Check pings postgres and redis. A down database is an error; a down cache only degrades.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	deps := make(map[string]string)
	status := "ok"

	if err := h.pingDatabase(ctx); err != nil {
		deps["postgres"] = "down"
		status = "error"
	} else {
		deps["postgres"] = "ok"
	}

	switch {
	case h.redis == nil:
		deps["redis"] = "disabled"
	case h.redis.Ping(ctx).Err() != nil:
		deps["redis"] = "down"
		if status == "ok" {
			status = "degraded"
		}
	default:
		deps["redis"] = "ok"
	}

	httpStatus := http.StatusOK
	if status == "error" {
		httpStatus = http.StatusServiceUnavailable
	}

	response.JSON(w, httpStatus, HealthResponse{
		Status:       status,
		Env:          h.env,
		Dependencies: deps,
	})
}

func (h *HealthHandler) pingDatabase(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
