package jobs

import (
	"context"
	"time"

	"github.com/nusatech-dev/backoffice-api/internal/domain"
	"go.uber.org/zap"
)

// LeadLifecycleSyncer recomputes customer-active flags from contract state.
type LeadLifecycleSyncer interface {
	SyncAll(ctx context.Context) (*domain.ResyncResult, error)
}

// ResyncJob re-evaluates every customer lead nightly so that leads whose
// last contract expired overnight lose their active flag without waiting
// for a write to that lead.
type ResyncJob struct {
	syncer  LeadLifecycleSyncer
	logger  *zap.Logger
	timeout time.Duration
}

func NewResyncJob(syncer LeadLifecycleSyncer, logger *zap.Logger) *ResyncJob {
	return &ResyncJob{
		syncer:  syncer,
		logger:  logger,
		timeout: 10 * time.Minute,
	}
}

func (j *ResyncJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	result, err := j.syncer.SyncAll(ctx)
	if err != nil {
		j.logger.Error("Lifecycle resync failed", zap.Error(err))
		return
	}

	j.logger.Info("Lifecycle resync completed",
		zap.Int("checked", result.Checked),
		zap.Int("updated", result.Updated),
		zap.Duration("duration", time.Since(start)),
	)
}
