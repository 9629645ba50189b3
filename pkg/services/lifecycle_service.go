package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brainbuild-ai/brainbuild-engine/pkg/apperrors"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/itemtype"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/models"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/repositories"
)

// Transition actions. Every item mutation flows through one of these.
const (
	ActionAccept     = "accept"
	ActionReject     = "reject"
	ActionPrioritize = "prioritize"
	ActionSync       = "sync"
)

// TransitionRequest describes one lifecycle transition on a PRD section.
type TransitionRequest struct {
	Action   string
	ItemType itemtype.Type

	// ItemID targets accept/reject/prioritize.
	ItemID uuid.UUID

	// Priority is used by prioritize. Empty defaults to medium.
	Priority string

	// PRDID and SelectedIDs are used by sync: SelectedIDs becomes the full
	// new membership set for (prd, type).
	PRDID       uuid.UUID
	SelectedIDs []uuid.UUID
}

// LifecycleService applies accept/reject/prioritize/sync transitions.
// Validation happens entirely before any database access: an invalid
// action, type, or type/action combination never touches a row.
type LifecycleService interface {
	ApplyTransition(ctx context.Context, tenantID uuid.UUID, req TransitionRequest) error
}

type lifecycleService struct {
	itemRepo repositories.ItemRepository
	linkRepo repositories.LinkRepository
	logger   *zap.Logger
}

// LifecycleServiceDeps contains dependencies for LifecycleService.
type LifecycleServiceDeps struct {
	ItemRepo repositories.ItemRepository
	LinkRepo repositories.LinkRepository
	Logger   *zap.Logger
}

// NewLifecycleService creates a new LifecycleService.
func NewLifecycleService(deps *LifecycleServiceDeps) LifecycleService {
	return &lifecycleService{
		itemRepo: deps.ItemRepo,
		linkRepo: deps.LinkRepo,
		logger:   deps.Logger.Named("lifecycle-service"),
	}
}

func (s *lifecycleService) ApplyTransition(ctx context.Context, tenantID uuid.UUID, req TransitionRequest) error {
	desc, ok := itemtype.Lookup(req.ItemType)
	if !ok {
		return apperrors.NewValidationError("item_type", fmt.Sprintf("unknown item type: %s", req.ItemType))
	}

	switch req.Action {
	case ActionAccept:
		return s.setAccepted(ctx, tenantID, req, true)
	case ActionReject:
		return s.setAccepted(ctx, tenantID, req, false)
	case ActionPrioritize:
		return s.prioritize(ctx, tenantID, desc, req)
	case ActionSync:
		return s.sync(ctx, tenantID, desc, req)
	default:
		return apperrors.NewValidationError("action", fmt.Sprintf("unknown action: %s", req.Action))
	}
}

func (s *lifecycleService) setAccepted(ctx context.Context, tenantID uuid.UUID, req TransitionRequest, accepted bool) error {
	if req.ItemID == uuid.Nil {
		return apperrors.NewValidationError("item_id", "item_id is required")
	}

	if err := s.itemRepo.SetAccepted(ctx, tenantID, req.ItemID, accepted); err != nil {
		return fmt.Errorf("apply %s to item %s: %w", req.Action, req.ItemID, err)
	}

	s.logger.Info("applied transition",
		zap.String("action", req.Action),
		zap.String("item_type", string(req.ItemType)),
		zap.String("item_id", req.ItemID.String()))
	return nil
}

func (s *lifecycleService) prioritize(ctx context.Context, tenantID uuid.UUID, desc itemtype.Descriptor, req TransitionRequest) error {
	if !desc.Prioritizable {
		return fmt.Errorf("%s: %w", desc.Type, apperrors.ErrNotPrioritizable)
	}
	if req.ItemID == uuid.Nil {
		return apperrors.NewValidationError("item_id", "item_id is required")
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidPriority(priority) {
		return apperrors.NewValidationError("priority", fmt.Sprintf("invalid priority: %s", priority))
	}

	if err := s.itemRepo.SetPriority(ctx, tenantID, req.ItemID, priority); err != nil {
		return fmt.Errorf("prioritize item %s: %w", req.ItemID, err)
	}

	s.logger.Info("applied transition",
		zap.String("action", ActionPrioritize),
		zap.String("item_type", string(req.ItemType)),
		zap.String("item_id", req.ItemID.String()),
		zap.String("priority", priority))
	return nil
}

func (s *lifecycleService) sync(ctx context.Context, tenantID uuid.UUID, desc itemtype.Descriptor, req TransitionRequest) error {
	if desc.Linkage != itemtype.LinkageJoin {
		return fmt.Errorf("%s: %w", desc.Type, apperrors.ErrNotSyncable)
	}
	if req.PRDID == uuid.Nil {
		return apperrors.NewValidationError("prd_id", "prd_id is required")
	}

	if err := s.linkRepo.ReplaceLinks(ctx, tenantID, req.PRDID, desc.Type, req.SelectedIDs); err != nil {
		return fmt.Errorf("sync %s links for prd %s: %w", desc.Type, req.PRDID, err)
	}

	s.logger.Info("applied transition",
		zap.String("action", ActionSync),
		zap.String("item_type", string(req.ItemType)),
		zap.String("prd_id", req.PRDID.String()),
		zap.Int("selected", len(req.SelectedIDs)))
	return nil
}
