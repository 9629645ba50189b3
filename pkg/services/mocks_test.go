package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/brainbuild-ai/brainbuild-engine/pkg/apperrors"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/itemtype"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/models"
)

// mockItemRepo implements repositories.ItemRepository for testing. Items are
// keyed by (tenant, id) so tenant-mismatch lookups miss the same way the real
// tenant predicate does.
type mockItemRepo struct {
	items map[uuid.UUID]*models.Item

	createErr  error
	getErr     error
	listErr    error
	updateErr  error
	replaceErr error

	setAcceptedCalls        int
	setPriorityCalls        int
	replaceSuggestionsCalls int
}

func newMockItemRepo() *mockItemRepo {
	return &mockItemRepo{items: map[uuid.UUID]*models.Item{}}
}

func (m *mockItemRepo) find(tenantID, itemID uuid.UUID) (*models.Item, error) {
	item, ok := m.items[itemID]
	if !ok || item.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	return item, nil
}

func (m *mockItemRepo) Create(_ context.Context, item *models.Item) error {
	if m.createErr != nil {
		return m.createErr
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.CreatedAt = time.Now()
	item.UpdatedAt = time.Now()
	m.items[item.ID] = item
	return nil
}

func (m *mockItemRepo) GetByID(_ context.Context, tenantID, itemID uuid.UUID) (*models.Item, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.find(tenantID, itemID)
}

func (m *mockItemRepo) ListByPRD(_ context.Context, tenantID, prdID uuid.UUID, t itemtype.Type) ([]*models.Item, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*models.Item
	for _, item := range m.items {
		if item.TenantID == tenantID && item.PRDID == prdID && item.Type == t {
			result = append(result, item)
		}
	}
	return result, nil
}

func (m *mockItemRepo) ListSuggested(_ context.Context, tenantID, prdID uuid.UUID, t itemtype.Type) ([]*models.Item, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*models.Item
	for _, item := range m.items {
		if item.TenantID == tenantID && item.PRDID == prdID && item.Type == t && item.IsSuggested && !item.IsAccepted {
			result = append(result, item)
		}
	}
	return result, nil
}

func (m *mockItemRepo) SetAccepted(_ context.Context, tenantID, itemID uuid.UUID, accepted bool) error {
	m.setAcceptedCalls++
	if m.updateErr != nil {
		return m.updateErr
	}
	item, err := m.find(tenantID, itemID)
	if err != nil {
		return err
	}
	item.IsAccepted = accepted
	return nil
}

func (m *mockItemRepo) SetPriority(_ context.Context, tenantID, itemID uuid.UUID, priority string) error {
	m.setPriorityCalls++
	if m.updateErr != nil {
		return m.updateErr
	}
	item, err := m.find(tenantID, itemID)
	if err != nil {
		return err
	}
	item.Priority = priority
	return nil
}

func (m *mockItemRepo) Rename(_ context.Context, tenantID, itemID uuid.UUID, name string) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	item, err := m.find(tenantID, itemID)
	if err != nil {
		return err
	}
	item.Name = name
	return nil
}

func (m *mockItemRepo) UpdateDescription(_ context.Context, tenantID, itemID uuid.UUID, description string) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	item, err := m.find(tenantID, itemID)
	if err != nil {
		return err
	}
	item.Description = description
	return nil
}

func (m *mockItemRepo) AcceptSuggestedDescription(_ context.Context, tenantID, itemID uuid.UUID) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	item, err := m.find(tenantID, itemID)
	if err != nil {
		return err
	}
	if item.SuggestedDescription != nil {
		item.Description = *item.SuggestedDescription
	}
	item.IsAccepted = true
	return nil
}

func (m *mockItemRepo) SetExternalRef(_ context.Context, tenantID, itemID uuid.UUID, ref string) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	item, err := m.find(tenantID, itemID)
	if err != nil {
		return err
	}
	item.ExternalRef = &ref
	return nil
}

func (m *mockItemRepo) Delete(_ context.Context, tenantID, itemID uuid.UUID) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, err := m.find(tenantID, itemID); err != nil {
		return err
	}
	delete(m.items, itemID)
	return nil
}

func (m *mockItemRepo) ReplaceSuggestions(_ context.Context, tenantID, prdID uuid.UUID, t itemtype.Type, items []*models.Item) error {
	m.replaceSuggestionsCalls++
	if m.replaceErr != nil {
		return m.replaceErr
	}
	for id, item := range m.items {
		if item.TenantID == tenantID && item.PRDID == prdID && item.Type == t && item.IsSuggested && !item.IsAccepted {
			delete(m.items, id)
		}
	}
	for _, item := range items {
		m.items[item.ID] = item
	}
	return nil
}

// mockLinkRepo implements repositories.LinkRepository for testing. Link sets
// are keyed by (prd, type).
type mockLinkRepo struct {
	links map[string][]uuid.UUID

	replaceErr   error
	replaceCalls int
}

func newMockLinkRepo() *mockLinkRepo {
	return &mockLinkRepo{links: map[string][]uuid.UUID{}}
}

func linkKey(prdID uuid.UUID, t itemtype.Type) string {
	return prdID.String() + "/" + string(t)
}

func (m *mockLinkRepo) ReplaceLinks(_ context.Context, tenantID, prdID uuid.UUID, t itemtype.Type, itemIDs []uuid.UUID) error {
	m.replaceCalls++
	if m.replaceErr != nil {
		return m.replaceErr
	}
	deduped := make([]uuid.UUID, 0, len(itemIDs))
	seen := map[uuid.UUID]bool{}
	for _, id := range itemIDs {
		if !seen[id] {
			seen[id] = true
			deduped = append(deduped, id)
		}
	}
	m.links[linkKey(prdID, t)] = deduped
	return nil
}

func (m *mockLinkRepo) ListLinks(_ context.Context, tenantID, prdID uuid.UUID, t itemtype.Type) ([]*models.PRDItemLink, error) {
	var result []*models.PRDItemLink
	for _, id := range m.links[linkKey(prdID, t)] {
		result = append(result, &models.PRDItemLink{
			TenantID: tenantID,
			PRDID:    prdID,
			ItemID:   id,
			ItemType: t,
		})
	}
	return result, nil
}

func (m *mockLinkRepo) ListLinkedItems(_ context.Context, tenantID, prdID uuid.UUID, t itemtype.Type) ([]*models.Item, error) {
	return nil, nil
}

// mockPRDRepo implements repositories.PRDRepository for testing.
type mockPRDRepo struct {
	prds map[uuid.UUID]*models.PRD

	createErr error
	getErr    error
	updateErr error

	companyContextCalls int
}

func newMockPRDRepo() *mockPRDRepo {
	return &mockPRDRepo{prds: map[uuid.UUID]*models.PRD{}}
}

func (m *mockPRDRepo) Create(_ context.Context, prd *models.PRD) error {
	if m.createErr != nil {
		return m.createErr
	}
	if prd.ID == uuid.Nil {
		prd.ID = uuid.New()
	}
	prd.CreatedAt = time.Now()
	prd.UpdatedAt = time.Now()
	m.prds[prd.ID] = prd
	return nil
}

func (m *mockPRDRepo) GetByID(_ context.Context, tenantID, prdID uuid.UUID) (*models.PRD, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	prd, ok := m.prds[prdID]
	if !ok || prd.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	return prd, nil
}

func (m *mockPRDRepo) ListByTenant(_ context.Context, tenantID uuid.UUID) ([]*models.PRD, error) {
	var result []*models.PRD
	for _, prd := range m.prds {
		if prd.TenantID == tenantID {
			result = append(result, prd)
		}
	}
	return result, nil
}

func (m *mockPRDRepo) Update(_ context.Context, prd *models.PRD) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	existing, ok := m.prds[prd.ID]
	if !ok || existing.TenantID != prd.TenantID {
		return apperrors.ErrNotFound
	}
	m.prds[prd.ID] = prd
	return nil
}

func (m *mockPRDRepo) UpdateCompanyContext(_ context.Context, tenantID, prdID uuid.UUID, companyContext string) error {
	m.companyContextCalls++
	if m.updateErr != nil {
		return m.updateErr
	}
	prd, ok := m.prds[prdID]
	if !ok || prd.TenantID != tenantID {
		return apperrors.ErrNotFound
	}
	prd.CompanyContext = companyContext
	return nil
}

func (m *mockPRDRepo) Delete(_ context.Context, tenantID, prdID uuid.UUID) error {
	prd, ok := m.prds[prdID]
	if !ok || prd.TenantID != tenantID {
		return apperrors.ErrNotFound
	}
	delete(m.prds, prdID)
	return nil
}

// mockParseJobRepo implements repositories.ParseJobRepository for testing.
type mockParseJobRepo struct {
	jobs map[uuid.UUID]*models.ParseJob

	createErr error
}

func newMockParseJobRepo() *mockParseJobRepo {
	return &mockParseJobRepo{jobs: map[uuid.UUID]*models.ParseJob{}}
}

func (m *mockParseJobRepo) Create(_ context.Context, job *models.ParseJob) error {
	if m.createErr != nil {
		return m.createErr
	}
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	job.CreatedAt = time.Now()
	job.UpdatedAt = time.Now()
	m.jobs[job.ID] = job
	return nil
}

func (m *mockParseJobRepo) GetByID(_ context.Context, tenantID, jobID uuid.UUID) (*models.ParseJob, error) {
	job, ok := m.jobs[jobID]
	if !ok || job.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	return job, nil
}

func (m *mockParseJobRepo) UpdateStatus(_ context.Context, tenantID, jobID uuid.UUID, status, errMsg string) error {
	job, ok := m.jobs[jobID]
	if !ok || job.TenantID != tenantID {
		return apperrors.ErrNotFound
	}
	job.Status = status
	job.Error = errMsg
	return nil
}
