package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/brainbuild-ai/brainbuild-engine/pkg/export"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/itemtype"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/models"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/services"
)

// Handler tests exercise routing, decoding, and status-code mapping; the
// mocks below return whatever the test wires in.

type mockLifecycleService struct {
	applyErr  error
	lastReq   services.TransitionRequest
	callCount int
}

func (m *mockLifecycleService) ApplyTransition(_ context.Context, _ uuid.UUID, req services.TransitionRequest) error {
	m.callCount++
	m.lastReq = req
	return m.applyErr
}

type mockItemService struct {
	item    *models.Item
	items   []*models.Item
	itemErr error
}

func (m *mockItemService) AddManual(_ context.Context, tenantID, prdID uuid.UUID, t itemtype.Type, name, description string) (*models.Item, error) {
	if m.itemErr != nil {
		return nil, m.itemErr
	}
	return m.item, nil
}

func (m *mockItemService) ListSection(_ context.Context, _, _ uuid.UUID, _ itemtype.Type) ([]*models.Item, error) {
	return m.items, m.itemErr
}

func (m *mockItemService) AcceptDescription(_ context.Context, _, _ uuid.UUID) error {
	return m.itemErr
}

func (m *mockItemService) Rename(_ context.Context, _, _ uuid.UUID, _ string) error {
	return m.itemErr
}

func (m *mockItemService) ModifySuggestion(_ context.Context, _, _ uuid.UUID, _ string) error {
	return m.itemErr
}

func (m *mockItemService) Delete(_ context.Context, _, _ uuid.UUID) error {
	return m.itemErr
}

type mockSuggestionService struct {
	items       []*models.Item
	generateErr error

	lastRegenerate bool
}

func (m *mockSuggestionService) Generate(_ context.Context, _, _ uuid.UUID, _ itemtype.Type, regenerate bool) ([]*models.Item, error) {
	m.lastRegenerate = regenerate
	if m.generateErr != nil {
		return nil, m.generateErr
	}
	return m.items, nil
}

type mockExportService struct {
	result    *export.IssueResult
	exportErr error
}

func (m *mockExportService) ExportTicket(_ context.Context, _ uuid.UUID, _ services.ExportRequest) (*export.IssueResult, error) {
	if m.exportErr != nil {
		return nil, m.exportErr
	}
	return m.result, nil
}

type mockParseJobService struct {
	job      *models.ParseJob
	startErr error
	getErr   error
}

func (m *mockParseJobService) Start(_ context.Context, _, _ uuid.UUID, _ string) (*models.ParseJob, error) {
	if m.startErr != nil {
		return nil, m.startErr
	}
	return m.job, nil
}

func (m *mockParseJobService) GetStatus(_ context.Context, _, _ uuid.UUID) (*models.ParseJob, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.job, nil
}

type mockPRDService struct {
	prd       *models.PRD
	prds      []*models.PRD
	err       error
	lastName  string
	deleteIDs []uuid.UUID
}

func (m *mockPRDService) Create(_ context.Context, tenantID uuid.UUID, name, overview string) (*models.PRD, error) {
	m.lastName = name
	if m.err != nil {
		return nil, m.err
	}
	return &models.PRD{ID: uuid.New(), TenantID: tenantID, Name: name, Overview: overview}, nil
}

func (m *mockPRDService) Get(_ context.Context, _, _ uuid.UUID) (*models.PRD, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.prd, nil
}

func (m *mockPRDService) List(_ context.Context, _ uuid.UUID) ([]*models.PRD, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.prds, nil
}

func (m *mockPRDService) Update(_ context.Context, tenantID, prdID uuid.UUID, name, overview string) (*models.PRD, error) {
	m.lastName = name
	if m.err != nil {
		return nil, m.err
	}
	return &models.PRD{ID: prdID, TenantID: tenantID, Name: name, Overview: overview}, nil
}

func (m *mockPRDService) Delete(_ context.Context, _, prdID uuid.UUID) error {
	m.deleteIDs = append(m.deleteIDs, prdID)
	return m.err
}
