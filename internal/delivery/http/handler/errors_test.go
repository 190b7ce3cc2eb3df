package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"clinic-scheduler/internal/domain/scheduling"
	"clinic-scheduler/internal/service"
	"clinic-scheduler/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"already cancelled", scheduling.ErrAlreadyCancelled, http.StatusConflict},
		{"already cancelled violation", &scheduling.Violation{Kind: scheduling.ErrAlreadyCancelled, Field: "status", Value: "cancelled"}, http.StatusConflict},
		{"duplicate assignment", fmt.Errorf("%w: service 1, professional 2", scheduling.ErrDuplicateAssignment), http.StatusConflict},
		{"document exists", usecase.ErrDocumentExists, http.StatusConflict},
		{"lock busy", service.ErrLockNotAcquired, http.StatusConflict},
		{"overlap only", scheduling.Aggregate(&scheduling.Violation{Kind: scheduling.ErrOverlap, Field: "start_at"}), http.StatusConflict},
		{"not eligible", scheduling.Aggregate(&scheduling.Violation{Kind: scheduling.ErrNotEligible, Field: "professional_id"}), http.StatusBadRequest},
		{"not found", scheduling.NewNotFound("appointment", 9), http.StatusNotFound},
		{"audit log missing", usecase.ErrAuditLogNotFound, http.StatusNotFound},
		{"bad date", fmt.Errorf("%w: %q", usecase.ErrInvalidDate, "x"), http.StatusBadRequest},
		{"invalid key", usecase.ErrInvalidApiKey, http.StatusUnauthorized},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err, "boom")
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestWriteError_ViolationDetails(t *testing.T) {
	err := scheduling.Aggregate(
		&scheduling.Violation{Kind: scheduling.ErrInvalidWindow, Field: "end_at"},
		&scheduling.Violation{Kind: scheduling.ErrInvalidRole, Field: "client_id", Value: 4, Detail: "person must have role client"},
		&scheduling.Violation{Kind: scheduling.ErrOverlap, Field: "start_at"},
	)

	rec := httptest.NewRecorder()
	writeError(rec, err, "boom")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error []ViolationResponse `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Error, 3)
	assert.Equal(t, "invalid_window", body.Error[0].Code)
	assert.Equal(t, "person must have role client", body.Error[1].Message)
	assert.Equal(t, "overlap", body.Error[2].Code)
}
