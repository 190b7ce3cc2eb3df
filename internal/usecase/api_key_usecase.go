package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"time"

	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"
	"clinic-scheduler/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	apiKeyPrefixBytes = 4
	apiKeySecretBytes = 30
)

// ApiKeyUsecase issues and verifies keys of the form "<prefix>.<secret>"
type ApiKeyUsecase interface {
	Issue(ctx context.Context, req *dto.CreateApiKeyRequest) (*dto.IssuedApiKeyResponse, error)
	List(ctx context.Context) (*dto.ApiKeyListResponse, error)
	Revoke(ctx context.Context, id uuid.UUID) error
	Authenticate(ctx context.Context, rawKey string) (*entity.ApiKey, error)
}

type apiKeyUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	apiKeyRepo   repository.ApiKeyRepository
	auditService service.AuditService
}

func NewApiKeyUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	apiKeyRepo repository.ApiKeyRepository,
	auditService service.AuditService,
) ApiKeyUsecase {
	return &apiKeyUsecase{
		db:           db,
		log:          log,
		apiKeyRepo:   apiKeyRepo,
		auditService: auditService,
	}
}

// Issue stores only the bcrypt hash of the secret. The plaintext key is returned once.
func (u *apiKeyUsecase) Issue(ctx context.Context, req *dto.CreateApiKeyRequest) (*dto.IssuedApiKeyResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	prefix, secret, err := generateApiKey()
	if err != nil {
		u.log.Warnf("Failed to generate api key: %+v", err)
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash api key: %+v", err)
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	key := &entity.ApiKey{
		Name:        name,
		Prefix:      prefix,
		KeyHash:     string(hash),
		IsActive:    true,
		Description: strings.TrimSpace(req.Description),
	}
	if err := u.apiKeyRepo.Create(tx, key); err != nil {
		u.log.Warnf("Failed to create api key: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, entity.AuditActionApiKeyIssue, "api_key", key.ID, converter.ApiKeyToResponse(key)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return &dto.IssuedApiKeyResponse{
		ApiKeyResponse: *converter.ApiKeyToResponse(key),
		Key:            prefix + "." + secret,
	}, nil
}

func (u *apiKeyUsecase) List(ctx context.Context) (*dto.ApiKeyListResponse, error) {
	keys, err := u.apiKeyRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find api keys: %+v", err)
		return nil, err
	}

	return &dto.ApiKeyListResponse{
		Keys:  converter.ApiKeysToResponses(keys),
		Total: len(keys),
	}, nil
}

func (u *apiKeyUsecase) Revoke(ctx context.Context, id uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	affected, err := u.apiKeyRepo.Deactivate(tx, id)
	if err != nil {
		u.log.Warnf("Failed to revoke api key %s: %+v", id, err)
		return err
	}
	if affected == 0 {
		return ErrApiKeyNotFound
	}

	if err := u.auditService.LogDelete(ctx, tx, entity.AuditActionApiKeyRevoke, "api_key", id, map[string]any{"is_active": true}); err != nil {
		return err
	}

	return tx.Commit().Error
}

// Authenticate resolves an active key and records its use. Every failure is reported
// as ErrInvalidApiKey so callers cannot tell unknown prefixes from wrong secrets.
func (u *apiKeyUsecase) Authenticate(ctx context.Context, rawKey string) (*entity.ApiKey, error) {
	prefix, secret, ok := strings.Cut(strings.TrimSpace(rawKey), ".")
	if !ok || prefix == "" || secret == "" {
		return nil, ErrInvalidApiKey
	}

	db := u.db.WithContext(ctx)

	key, err := u.apiKeyRepo.FindByPrefix(db, prefix)
	if err != nil {
		u.log.Warnf("Failed to find api key by prefix: %+v", err)
		return nil, err
	}
	if key == nil || !key.IsActive {
		return nil, ErrInvalidApiKey
	}

	if err := bcrypt.CompareHashAndPassword([]byte(key.KeyHash), []byte(secret)); err != nil {
		return nil, ErrInvalidApiKey
	}

	usedAt := time.Now().UTC()
	if err := u.apiKeyRepo.TouchUsage(db, key.ID, usedAt); err != nil {
		u.log.Warnf("Failed to record api key usage: %+v", err)
	} else {
		key.LastUsedAt = &usedAt
		key.UsageCount++
	}

	return key, nil
}

func generateApiKey() (prefix, secret string, err error) {
	prefixBytes := make([]byte, apiKeyPrefixBytes)
	if _, err = rand.Read(prefixBytes); err != nil {
		return "", "", err
	}
	secretBytes := make([]byte, apiKeySecretBytes)
	if _, err = rand.Read(secretBytes); err != nil {
		return "", "", err
	}
	return hex.EncodeToString(prefixBytes), base64.RawURLEncoding.EncodeToString(secretBytes), nil
}
