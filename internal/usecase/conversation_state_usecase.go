package usecase

import (
	"context"
	"encoding/json"
	"strings"

	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"
	"clinic-scheduler/internal/domain/scheduling"
	"clinic-scheduler/internal/service"
	"clinic-scheduler/pkg/validator"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ConversationStateUsecase stores the bot's opaque per-handle payloads
type ConversationStateUsecase interface {
	Upsert(ctx context.Context, handle string, req *dto.UpsertConversationStateRequest) (*dto.ConversationStateResponse, error)
	GetByHandle(ctx context.Context, handle string) (*dto.ConversationStateResponse, error)
	Delete(ctx context.Context, handle string) error
}

type conversationStateUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	stateRepo         repository.ConversationStateRepository
	clientProfileRepo repository.ClientProfileRepository
	cache             service.ConversationCache
	auditService      service.AuditService

	// Collapses concurrent cache misses per handle
	loads singleflight.Group
}

func NewConversationStateUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	stateRepo repository.ConversationStateRepository,
	clientProfileRepo repository.ClientProfileRepository,
	cache service.ConversationCache,
	auditService service.AuditService,
) ConversationStateUsecase {
	return &conversationStateUsecase{
		db:                db,
		log:               log,
		stateRepo:         stateRepo,
		clientProfileRepo: clientProfileRepo,
		cache:             cache,
		auditService:      auditService,
	}
}

func (u *conversationStateUsecase) Upsert(ctx context.Context, handle string, req *dto.UpsertConversationStateRequest) (*dto.ConversationStateResponse, error) {
	handle = strings.TrimSpace(handle)
	if err := scheduling.Aggregate(checkHandle(handle), checkPayload(req.Payload)); err != nil {
		return nil, err
	}

	state := &entity.ConversationState{
		Handle:  handle,
		Payload: datatypes.JSON(req.Payload),
	}
	if err := u.stateRepo.Upsert(u.db.WithContext(ctx), state); err != nil {
		u.log.Warnf("Failed to upsert conversation state %s: %+v", handle, err)
		return nil, err
	}

	u.invalidate(ctx, handle)
	return converter.ConversationStateToResponse(state), nil
}

// GetByHandle reads through the cache. Concurrent misses for one handle share a single load.
func (u *conversationStateUsecase) GetByHandle(ctx context.Context, handle string) (*dto.ConversationStateResponse, error) {
	handle = strings.TrimSpace(handle)

	cached, err := u.cache.Get(ctx, handle)
	if err != nil {
		u.log.Warnf("Failed to read conversation cache for %s: %+v", handle, err)
	}
	if cached != nil {
		return converter.ConversationStateToResponse(cached), nil
	}

	v, err, _ := u.loads.Do(handle, func() (any, error) {
		// the load is shared, so one caller cancelling must not fail the others
		loadCtx := context.WithoutCancel(ctx)
		state, err := u.stateRepo.FindByHandle(u.db.WithContext(loadCtx), handle)
		if err != nil {
			u.log.Warnf("Failed to find conversation state %s: %+v", handle, err)
			return nil, err
		}
		if state == nil {
			return nil, scheduling.NewNotFound("conversation_state", handle)
		}
		if err := u.cache.Set(loadCtx, state); err != nil {
			u.log.Warnf("Failed to cache conversation state %s: %+v", handle, err)
		}
		return state, nil
	})
	if err != nil {
		return nil, err
	}

	return converter.ConversationStateToResponse(v.(*entity.ConversationState)), nil
}

// Delete removes the state and detaches linked clients. Clients are never deleted.
func (u *conversationStateUsecase) Delete(ctx context.Context, handle string) error {
	handle = strings.TrimSpace(handle)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	state, err := u.stateRepo.FindByHandle(tx, handle)
	if err != nil {
		u.log.Warnf("Failed to find conversation state %s: %+v", handle, err)
		return err
	}
	if state == nil {
		return scheduling.NewNotFound("conversation_state", handle)
	}

	if err := u.clientProfileRepo.ClearConversationState(tx, state.ID); err != nil {
		u.log.Warnf("Failed to detach clients from conversation state %d: %+v", state.ID, err)
		return err
	}
	if err := u.stateRepo.Delete(tx, state.ID); err != nil {
		u.log.Warnf("Failed to delete conversation state %d: %+v", state.ID, err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, entity.AuditActionConversationDelete, "conversation_state", state.ID, converter.ConversationStateToResponse(state)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.invalidate(ctx, handle)
	return nil
}

func (u *conversationStateUsecase) invalidate(ctx context.Context, handle string) {
	if err := u.cache.Delete(ctx, handle); err != nil {
		u.log.Warnf("Failed to invalidate conversation cache for %s: %+v", handle, err)
	}
}

func checkHandle(handle string) error {
	if !validator.IsPhone(handle) || len(handle) > 20 {
		return &scheduling.Violation{Kind: ErrInvalidPhone, Field: "handle", Value: handle}
	}
	return nil
}

func checkPayload(payload json.RawMessage) error {
	if len(payload) == 0 || !json.Valid(payload) {
		return &scheduling.Violation{Kind: ErrInvalidPayload, Field: "payload"}
	}
	return nil
}
