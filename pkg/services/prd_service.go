package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brainbuild-ai/brainbuild-engine/pkg/apperrors"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/models"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/repositories"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/validate"
)

// PRDService manages product requirements documents.
type PRDService interface {
	Create(ctx context.Context, tenantID uuid.UUID, name, overview string) (*models.PRD, error)
	Get(ctx context.Context, tenantID, prdID uuid.UUID) (*models.PRD, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]*models.PRD, error)
	Update(ctx context.Context, tenantID, prdID uuid.UUID, name, overview string) (*models.PRD, error)
	Delete(ctx context.Context, tenantID, prdID uuid.UUID) error
}

type prdService struct {
	prdRepo repositories.PRDRepository
	logger  *zap.Logger
}

// NewPRDService creates a new PRDService.
func NewPRDService(prdRepo repositories.PRDRepository, logger *zap.Logger) PRDService {
	return &prdService{
		prdRepo: prdRepo,
		logger:  logger.Named("prd-service"),
	}
}

func validatePRDInput(name, overview string) error {
	verr := &apperrors.ValidationError{}
	if name == "" {
		verr.Add("name", "name is required")
	}
	for _, unsafe := range validate.CheckFields(map[string]string{"name": name, "overview": overview}) {
		verr.Add(unsafe.Field, "value contains disallowed content")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

func (s *prdService) Create(ctx context.Context, tenantID uuid.UUID, name, overview string) (*models.PRD, error) {
	if err := validatePRDInput(name, overview); err != nil {
		return nil, err
	}

	prd := &models.PRD{
		ID:       uuid.New(),
		TenantID: tenantID,
		Name:     name,
		Overview: overview,
	}
	if err := s.prdRepo.Create(ctx, prd); err != nil {
		return nil, fmt.Errorf("create prd: %w", err)
	}

	s.logger.Info("created prd", zap.String("prd_id", prd.ID.String()))
	return prd, nil
}

func (s *prdService) Get(ctx context.Context, tenantID, prdID uuid.UUID) (*models.PRD, error) {
	return s.prdRepo.GetByID(ctx, tenantID, prdID)
}

func (s *prdService) List(ctx context.Context, tenantID uuid.UUID) ([]*models.PRD, error) {
	return s.prdRepo.ListByTenant(ctx, tenantID)
}

func (s *prdService) Update(ctx context.Context, tenantID, prdID uuid.UUID, name, overview string) (*models.PRD, error) {
	if err := validatePRDInput(name, overview); err != nil {
		return nil, err
	}

	prd, err := s.prdRepo.GetByID(ctx, tenantID, prdID)
	if err != nil {
		return nil, err
	}

	prd.Name = name
	prd.Overview = overview
	if err := s.prdRepo.Update(ctx, prd); err != nil {
		return nil, fmt.Errorf("update prd %s: %w", prdID, err)
	}
	return prd, nil
}

func (s *prdService) Delete(ctx context.Context, tenantID, prdID uuid.UUID) error {
	if err := s.prdRepo.Delete(ctx, tenantID, prdID); err != nil {
		return fmt.Errorf("delete prd %s: %w", prdID, err)
	}
	s.logger.Info("deleted prd", zap.String("prd_id", prdID.String()))
	return nil
}
