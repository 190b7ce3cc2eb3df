package usecase

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrDocumentExists      = errors.New("document number already registered")
	ErrEmailExists         = errors.New("email already registered")
	ErrHandleExists        = errors.New("messaging handle already registered")
	ErrInvalidDocumentType = errors.New("document type must be one of CC, TI, NIT")
	ErrInvalidPhone        = errors.New("may contain only digits, spaces, dashes and a leading +")
	ErrInvalidAge          = errors.New("age must be between 0 and 120")
	ErrNameRequired        = errors.New("name is required")
	ErrInvalidDuration     = errors.New("duration must be greater than zero")
	ErrInvalidPayload      = errors.New("payload must be valid JSON")
	ErrInvalidDate         = errors.New("date must be formatted as YYYY-MM-DD")
	ErrInvalidDateRange    = errors.New("start date must not be after end date")
	ErrInvalidApiKey       = errors.New("invalid api key")
	ErrApiKeyNotFound      = errors.New("api key not found")
	ErrAuditLogNotFound    = errors.New("audit log not found")
)

// isDuplicateKeyError checks if the error is a PostgreSQL unique violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isUniqueViolation matches any unique violation, raw or translated by gorm
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
