package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brainbuild-ai/brainbuild-engine/pkg/apperrors"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/export"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/itemtype"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/repositories"
)

// ExportRequest identifies a ticket and the tracker destination to push it to.
type ExportRequest struct {
	ItemID      uuid.UUID
	TrackerType string            // "github" or "jira"
	Config      map[string]string // adapter-specific destination config
}

// ExportService pushes accepted tickets to external issue trackers. The
// external_ref column is only written after the adapter confirms the remote
// issue; an adapter failure leaves the row untouched.
type ExportService interface {
	ExportTicket(ctx context.Context, tenantID uuid.UUID, req ExportRequest) (*export.IssueResult, error)
}

type exportService struct {
	itemRepo   repositories.ItemRepository
	newCreator func(trackerType string, config map[string]string, logger *zap.Logger) (export.IssueCreator, error)
	logger     *zap.Logger
}

// ExportServiceDeps contains dependencies for ExportService.
type ExportServiceDeps struct {
	ItemRepo repositories.ItemRepository
	// NewCreator is swappable for tests. Defaults to export.NewCreator.
	NewCreator func(trackerType string, config map[string]string, logger *zap.Logger) (export.IssueCreator, error)
	Logger     *zap.Logger
}

// NewExportService creates a new ExportService.
func NewExportService(deps *ExportServiceDeps) ExportService {
	newCreator := deps.NewCreator
	if newCreator == nil {
		newCreator = export.NewCreator
	}
	return &exportService{
		itemRepo:   deps.ItemRepo,
		newCreator: newCreator,
		logger:     deps.Logger.Named("export-service"),
	}
}

func (s *exportService) ExportTicket(ctx context.Context, tenantID uuid.UUID, req ExportRequest) (*export.IssueResult, error) {
	item, err := s.itemRepo.GetByID(ctx, tenantID, req.ItemID)
	if err != nil {
		return nil, err
	}

	if item.Type != itemtype.Ticket {
		return nil, apperrors.NewValidationError("item_id", fmt.Sprintf("item is a %s, only tickets can be exported", item.Type))
	}
	if !item.IsAccepted {
		return nil, apperrors.NewValidationError("item_id", "item must be accepted before export")
	}
	if item.ExternalRef != nil {
		return nil, fmt.Errorf("item already exported as %s: %w", *item.ExternalRef, apperrors.ErrConflict)
	}

	creator, err := s.newCreator(req.TrackerType, req.Config, s.logger)
	if err != nil {
		return nil, apperrors.NewValidationError("tracker", err.Error())
	}

	description := item.Description
	if description == "" && item.SuggestedDescription != nil {
		description = *item.SuggestedDescription
	}

	result, err := creator.CreateIssue(ctx, export.IssueRequest{
		Title:       item.Name,
		Description: description,
		Priority:    item.Priority,
		Labels:      []string{"brainbuild"},
	})
	if err != nil {
		s.logger.Error("export failed",
			zap.String("item_id", item.ID.String()),
			zap.String("target", creator.Target()),
			zap.Error(err))
		return nil, fmt.Errorf("%s: %v: %w", creator.Target(), err, apperrors.ErrExportFailed)
	}

	if err := s.itemRepo.SetExternalRef(ctx, tenantID, item.ID, result.ExternalRef); err != nil {
		// The remote issue exists but the ref write failed; surface the ref
		// so the caller can retry the write rather than re-exporting.
		return result, fmt.Errorf("record external ref %s: %w", result.ExternalRef, err)
	}

	s.logger.Info("exported ticket",
		zap.String("item_id", item.ID.String()),
		zap.String("external_ref", result.ExternalRef))
	return result, nil
}
