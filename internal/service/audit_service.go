package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/kindergarten-erp-api/internal/models"
	"github.com/noah-isme/kindergarten-erp-api/internal/query"
	"github.com/noah-isme/kindergarten-erp-api/pkg/jobs"
)

const (
	auditJobType      = "audit_entry"
	auditWriteTimeout = 5 * time.Second
)

type auditRepository interface {
	Create(ctx context.Context, entry *models.AuditEntry) error
	List(ctx context.Context, params query.Params) ([]models.AuditEntry, int, error)
}

type auditMetrics interface {
	RecordAudit(outcome string)
}

// AuditConfig selects between queued and inline writes.
type AuditConfig struct {
	Async      bool
	Workers    int
	BufferSize int
}

// AuditService records and lists action audit entries. Recording is best
// effort: failures are logged and counted, never returned to callers.
type AuditService struct {
	repo    auditRepository
	metrics auditMetrics
	logger  *zap.Logger
	queue   *jobs.Queue
}

// NewAuditService constructs an AuditService. With cfg.Async the entries go
// through a worker pool that must be started with Start.
func NewAuditService(repo auditRepository, metrics auditMetrics, logger *zap.Logger, cfg AuditConfig) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AuditService{repo: repo, metrics: metrics, logger: logger}
	if cfg.Async {
		s.queue = jobs.NewQueue("audit", s.handleJob, jobs.QueueConfig{
			Workers:    cfg.Workers,
			BufferSize: cfg.BufferSize,
			MaxRetries: 0,
			Logger:     logger,
		})
	}
	return s
}

// Start launches the audit workers when running asynchronously.
func (s *AuditService) Start(ctx context.Context) {
	if s.queue != nil {
		s.queue.Start(ctx)
	}
}

// Stop flushes queued entries and stops the workers.
func (s *AuditService) Stop() {
	if s.queue != nil {
		s.queue.Stop()
	}
}

// Record stores entry in the background, or inline when async is disabled.
func (s *AuditService) Record(ctx context.Context, entry models.AuditEntry) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	if s.queue == nil {
		s.write(ctx, entry)
		return
	}

	job := jobs.Job{ID: uuid.NewString(), Type: auditJobType, Payload: entry}
	if err := s.queue.TryEnqueue(job); err != nil {
		s.count(AuditOutcomeDropped)
		s.logger.Warn("audit entry dropped",
			zap.String("action", entry.Action),
			zap.Int64("user_id", entry.UserID),
			zap.Error(err),
		)
	}
}

// List returns one page of audit entries.
func (s *AuditService) List(ctx context.Context, params query.Params) ([]models.AuditEntry, int, error) {
	entries, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, internalError(err, "list action logs")
	}
	return entries, total, nil
}

func (s *AuditService) handleJob(ctx context.Context, job jobs.Job) error {
	entry, ok := job.Payload.(models.AuditEntry)
	if !ok {
		s.logger.Warn("unexpected audit job payload", zap.String("job_id", job.ID))
		return nil
	}
	s.write(ctx, entry)
	return nil
}

func (s *AuditService) write(ctx context.Context, entry models.AuditEntry) {
	ctx, cancel := context.WithTimeout(ctx, auditWriteTimeout)
	defer cancel()

	if err := s.repo.Create(ctx, &entry); err != nil {
		s.count(AuditOutcomeFailed)
		s.logger.Warn("audit write failed",
			zap.String("action", entry.Action),
			zap.Int64("user_id", entry.UserID),
			zap.Error(err),
		)
		return
	}
	s.count(AuditOutcomeWritten)
}

func (s *AuditService) count(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordAudit(outcome)
	}
}
