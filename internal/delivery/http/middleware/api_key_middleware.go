package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/usecase"
	"clinic-scheduler/pkg/requestctx"
	"clinic-scheduler/pkg/response"
)

// ApiKeyScheme is the Authorization scheme: "Api-Key <prefix>.<secret>"
const ApiKeyScheme = "Api-Key"

type contextKey string

const apiKeyContextKey contextKey = "api_key"

type ApiKeyMiddleware struct {
	apiKeyUsecase usecase.ApiKeyUsecase
}

func NewApiKeyMiddleware(apiKeyUsecase usecase.ApiKeyUsecase) *ApiKeyMiddleware {
	return &ApiKeyMiddleware{
		apiKeyUsecase: apiKeyUsecase,
	}
}

func (m *ApiKeyMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		scheme, rawKey, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, ApiKeyScheme) || strings.TrimSpace(rawKey) == "" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		key, err := m.apiKeyUsecase.Authenticate(r.Context(), rawKey)
		if err != nil {
			if errors.Is(err, usecase.ErrInvalidApiKey) {
				response.Unauthorized(w, "Invalid or revoked api key")
				return
			}
			response.InternalServerError(w, "Failed to validate api key")
			return
		}

		ctx := context.WithValue(r.Context(), apiKeyContextKey, key)
		ctx = requestctx.WithActor(ctx, "api_key:"+key.Name)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetApiKeyFromContext returns the key that authenticated the request
func GetApiKeyFromContext(ctx context.Context) (*entity.ApiKey, bool) {
	key, ok := ctx.Value(apiKeyContextKey).(*entity.ApiKey)
	return key, ok
}
