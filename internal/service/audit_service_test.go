package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/kindergarten-erp-api/internal/models"
	"github.com/noah-isme/kindergarten-erp-api/internal/query"
)

type mockAuditRepo struct {
	mu      sync.Mutex
	entries []models.AuditEntry
	err     error
	block   chan struct{}
}

func (m *mockAuditRepo) Create(_ context.Context, entry *models.AuditEntry) error {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	entry.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockAuditRepo) List(context.Context, query.Params) ([]models.AuditEntry, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries, len(m.entries), nil
}

type auditCounter struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (a *auditCounter) RecordAudit(outcome string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.outcomes == nil {
		a.outcomes = map[string]int{}
	}
	a.outcomes[outcome]++
}

func TestAuditServiceSyncWrite(t *testing.T) {
	repo := &mockAuditRepo{}
	counter := &auditCounter{}
	svc := NewAuditService(repo, counter, nil, AuditConfig{})

	svc.Record(context.Background(), models.AuditEntry{UserID: 1, Action: models.AuditActionCreateChild})

	require.Len(t, repo.entries, 1)
	assert.False(t, repo.entries[0].CreatedAt.IsZero())
	assert.Equal(t, 1, counter.outcomes[AuditOutcomeWritten])
}

func TestAuditServiceSwallowsWriteErrors(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	repo := &mockAuditRepo{err: errors.New("disk full")}
	counter := &auditCounter{}
	svc := NewAuditService(repo, counter, zap.New(core), AuditConfig{})

	assert.NotPanics(t, func() {
		svc.Record(context.Background(), models.AuditEntry{UserID: 1, Action: models.AuditActionDeleteChild})
	})
	assert.Equal(t, 1, logs.FilterMessage("audit write failed").Len())
	assert.Equal(t, 1, counter.outcomes[AuditOutcomeFailed])
}

func TestAuditServiceAsyncFlushesOnStop(t *testing.T) {
	repo := &mockAuditRepo{}
	svc := NewAuditService(repo, nil, nil, AuditConfig{Async: true, Workers: 2, BufferSize: 16})
	svc.Start(context.Background())

	for i := 0; i < 10; i++ {
		svc.Record(context.Background(), models.AuditEntry{UserID: int64(i + 1), Action: models.AuditActionUpdateChild})
	}
	svc.Stop()

	_, total, err := svc.List(context.Background(), query.Params{})
	require.NoError(t, err)
	assert.Equal(t, 10, total)
}

func TestAuditServiceAsyncDropsWhenFull(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	repo := &mockAuditRepo{block: make(chan struct{})}
	counter := &auditCounter{}
	svc := NewAuditService(repo, counter, zap.New(core), AuditConfig{Async: true, Workers: 1, BufferSize: 1})
	svc.Start(context.Background())

	for i := 0; i < 5; i++ {
		svc.Record(context.Background(), models.AuditEntry{UserID: 1, Action: models.AuditActionCreateChild})
	}
	close(repo.block)
	svc.Stop()

	counter.mu.Lock()
	dropped := counter.outcomes[AuditOutcomeDropped]
	counter.mu.Unlock()
	assert.GreaterOrEqual(t, dropped, 3)
	assert.Equal(t, dropped, logs.FilterMessage("audit entry dropped").Len())
	assert.Equal(t, 5-dropped, len(repo.entries))
}

func TestAuditServiceAsyncNotStartedDrops(t *testing.T) {
	repo := &mockAuditRepo{}
	counter := &auditCounter{}
	svc := NewAuditService(repo, counter, nil, AuditConfig{Async: true})

	svc.Record(context.Background(), models.AuditEntry{UserID: 1, Action: models.AuditActionLogin})
	assert.Equal(t, 1, counter.outcomes[AuditOutcomeDropped])
	assert.Empty(t, repo.entries)
}
