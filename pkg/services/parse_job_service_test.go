package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brainbuild-ai/brainbuild-engine/pkg/apperrors"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/config"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/models"
)

type parseJobFixture struct {
	jobRepo  *mockParseJobRepo
	prdRepo  *mockPRDRepo
	svc      *parseJobService
	tenantID uuid.UUID
	prdID    uuid.UUID

	mu         sync.Mutex
	dispatched []uuid.UUID
}

func newParseJobFixture(t *testing.T) *parseJobFixture {
	t.Helper()

	f := &parseJobFixture{
		jobRepo:  newMockParseJobRepo(),
		prdRepo:  newMockPRDRepo(),
		tenantID: uuid.New(),
	}

	prd := &models.PRD{ID: uuid.New(), TenantID: f.tenantID, Name: "doc"}
	f.prdRepo.prds[prd.ID] = prd
	f.prdID = prd.ID

	svc := NewParseJobService(&ParseJobServiceDeps{
		JobRepo: f.jobRepo,
		PRDRepo: f.prdRepo,
		Config:  &config.JobsConfig{MaxConcurrent: 2, FetchTimeoutSeconds: 5},
		Logger:  zap.NewNop(),
	})
	f.svc = svc.(*parseJobService)
	f.svc.dispatch = func(jobID, _, _ uuid.UUID, _ string) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.dispatched = append(f.dispatched, jobID)
	}
	return f
}

func (f *parseJobFixture) waitDispatched(t *testing.T) uuid.UUID {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		f.mu.Lock()
		if len(f.dispatched) > 0 {
			id := f.dispatched[0]
			f.mu.Unlock()
			return id
		}
		f.mu.Unlock()
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("job was never dispatched")
	return uuid.Nil
}

func TestParseJobService_Start(t *testing.T) {
	f := newParseJobFixture(t)

	job, err := f.svc.Start(context.Background(), f.tenantID, f.prdID, "https://acme.example")
	require.NoError(t, err)

	assert.Equal(t, models.ParseJobStatusPending, job.Status)
	assert.Equal(t, job.ID, f.waitDispatched(t))
}

func TestParseJobService_Start_InvalidURL(t *testing.T) {
	f := newParseJobFixture(t)

	for _, raw := range []string{"", "not a url", "ftp://acme.example", "acme.example"} {
		_, err := f.svc.Start(context.Background(), f.tenantID, f.prdID, raw)
		var verr *apperrors.ValidationError
		require.ErrorAs(t, err, &verr, "url %q should be rejected", raw)
		assert.Contains(t, verr.Fields, "url")
	}
	assert.Empty(t, f.jobRepo.jobs)
}

func TestParseJobService_Start_MissingPRD(t *testing.T) {
	f := newParseJobFixture(t)

	_, err := f.svc.Start(context.Background(), f.tenantID, uuid.New(), "https://acme.example")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Empty(t, f.jobRepo.jobs)
}

func TestParseJobService_GetStatus(t *testing.T) {
	f := newParseJobFixture(t)

	job, err := f.svc.Start(context.Background(), f.tenantID, f.prdID, "https://acme.example")
	require.NoError(t, err)

	got, err := f.svc.GetStatus(context.Background(), f.tenantID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ParseJobStatusPending, got.Status)

	require.NoError(t, f.jobRepo.UpdateStatus(context.Background(), f.tenantID, job.ID, models.ParseJobStatusFailed, "fetch website: status 404"))

	got, err = f.svc.GetStatus(context.Background(), f.tenantID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ParseJobStatusFailed, got.Status)
	assert.Contains(t, got.Error, "404")
	assert.True(t, got.Terminal())
}

func TestParseJobService_GetStatus_TenantMismatch(t *testing.T) {
	f := newParseJobFixture(t)

	job, err := f.svc.Start(context.Background(), f.tenantID, f.prdID, "https://acme.example")
	require.NoError(t, err)

	_, err = f.svc.GetStatus(context.Background(), uuid.New(), job.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStripHTML(t *testing.T) {
	html := `<html><head><title>Acme</title><style>body{color:red}</style>
	<script>trackEverything()</script></head>
	<body><h1>Acme Rockets</h1><p>We sell rockets to coyotes.</p></body></html>`

	text := stripHTML(html)
	assert.Contains(t, text, "Acme Rockets")
	assert.Contains(t, text, "We sell rockets to coyotes.")
	assert.NotContains(t, text, "trackEverything")
	assert.NotContains(t, text, "color:red")
	assert.NotContains(t, text, "<p>")
}

func TestParseJobMirrorRoundTrip(t *testing.T) {
	tenantID, jobID := uuid.New(), uuid.New()
	key := parseJobKey(tenantID, jobID)
	assert.Contains(t, key, tenantID.String())
	assert.Contains(t, key, jobID.String())
}
