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
	"github.com/brainbuild-ai/brainbuild-engine/pkg/validate"
)

// ItemService manages direct item edits outside the transition state
// machine: manual adds, renames, description changes, and deletion.
type ItemService interface {
	// AddManual creates a user-typed item. Manual items enter the document
	// already accepted.
	AddManual(ctx context.Context, tenantID, prdID uuid.UUID, t itemtype.Type, name, description string) (*models.Item, error)

	// ListSection returns every item in a PRD section, accepted and
	// suggested alike.
	ListSection(ctx context.Context, tenantID, prdID uuid.UUID, t itemtype.Type) ([]*models.Item, error)

	// AcceptDescription promotes the AI-suggested description to the real
	// one and accepts the item in a single update.
	AcceptDescription(ctx context.Context, tenantID, itemID uuid.UUID) error

	// Rename changes an item's name.
	Rename(ctx context.Context, tenantID, itemID uuid.UUID, name string) error

	// ModifySuggestion overwrites an item's description with user-edited
	// text. The item keeps its current acceptance state.
	ModifySuggestion(ctx context.Context, tenantID, itemID uuid.UUID, description string) error

	// Delete removes the item row entirely. Link rows referencing it go
	// with it.
	Delete(ctx context.Context, tenantID, itemID uuid.UUID) error
}

type itemService struct {
	itemRepo repositories.ItemRepository
	linkRepo repositories.LinkRepository
	logger   *zap.Logger
}

// ItemServiceDeps contains dependencies for ItemService.
type ItemServiceDeps struct {
	ItemRepo repositories.ItemRepository
	LinkRepo repositories.LinkRepository
	Logger   *zap.Logger
}

// NewItemService creates a new ItemService.
func NewItemService(deps *ItemServiceDeps) ItemService {
	return &itemService{
		itemRepo: deps.ItemRepo,
		linkRepo: deps.LinkRepo,
		logger:   deps.Logger.Named("item-service"),
	}
}

func (s *itemService) AddManual(ctx context.Context, tenantID, prdID uuid.UUID, t itemtype.Type, name, description string) (*models.Item, error) {
	if _, ok := itemtype.Lookup(t); !ok {
		return nil, apperrors.NewValidationError("item_type", fmt.Sprintf("unknown item type: %s", t))
	}

	verr := &apperrors.ValidationError{}
	if name == "" {
		verr.Add("name", "name is required")
	}
	for _, unsafe := range validate.CheckFields(map[string]string{"name": name, "description": description}) {
		verr.Add(unsafe.Field, "value contains disallowed content")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	item := &models.Item{
		ID:              uuid.New(),
		TenantID:        tenantID,
		PRDID:           prdID,
		Type:            t,
		Name:            name,
		Description:     description,
		IsAccepted:      true,
		IsAddedManually: true,
		Priority:        models.PriorityMedium,
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create manual item: %w", err)
	}

	s.logger.Info("added manual item",
		zap.String("item_type", string(t)),
		zap.String("item_id", item.ID.String()))
	return item, nil
}

func (s *itemService) ListSection(ctx context.Context, tenantID, prdID uuid.UUID, t itemtype.Type) ([]*models.Item, error) {
	if _, ok := itemtype.Lookup(t); !ok {
		return nil, apperrors.NewValidationError("item_type", fmt.Sprintf("unknown item type: %s", t))
	}
	return s.itemRepo.ListByPRD(ctx, tenantID, prdID, t)
}

func (s *itemService) AcceptDescription(ctx context.Context, tenantID, itemID uuid.UUID) error {
	if err := s.itemRepo.AcceptSuggestedDescription(ctx, tenantID, itemID); err != nil {
		return fmt.Errorf("accept description on item %s: %w", itemID, err)
	}
	return nil
}

func (s *itemService) Rename(ctx context.Context, tenantID, itemID uuid.UUID, name string) error {
	if name == "" {
		return apperrors.NewValidationError("name", "name is required")
	}
	if unsafe := validate.CheckFreeText("name", name); unsafe != nil {
		return apperrors.NewValidationError("name", "value contains disallowed content")
	}

	if err := s.itemRepo.Rename(ctx, tenantID, itemID, name); err != nil {
		return fmt.Errorf("rename item %s: %w", itemID, err)
	}
	return nil
}

func (s *itemService) ModifySuggestion(ctx context.Context, tenantID, itemID uuid.UUID, description string) error {
	if unsafe := validate.CheckFreeText("description", description); unsafe != nil {
		return apperrors.NewValidationError("description", "value contains disallowed content")
	}

	if err := s.itemRepo.UpdateDescription(ctx, tenantID, itemID, description); err != nil {
		return fmt.Errorf("modify description on item %s: %w", itemID, err)
	}
	return nil
}

func (s *itemService) Delete(ctx context.Context, tenantID, itemID uuid.UUID) error {
	if err := s.itemRepo.Delete(ctx, tenantID, itemID); err != nil {
		return fmt.Errorf("delete item %s: %w", itemID, err)
	}
	s.logger.Info("deleted item", zap.String("item_id", itemID.String()))
	return nil
}
