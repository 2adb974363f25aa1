package jobs

import (
	"context"
	"time"

	"github.com/Behyna/pawn-services/internal/metrics"
	"github.com/Behyna/pawn-services/internal/service"
	"go.uber.org/zap"
)

const DefaultBatchSize = 500

// OverdueSweep persists the automatic OVERDUE transition for matured loans
// that nobody has touched since their maturity date.
type OverdueSweep struct {
	status    service.StatusService
	clock     service.Clock
	batchSize int
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewOverdueSweep(status service.StatusService, clock service.Clock, batchSize int,
	metrics *metrics.Metrics, logger *zap.Logger) *OverdueSweep {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &OverdueSweep{status: status, clock: clock, batchSize: batchSize, metrics: metrics, logger: logger}
}

// Run sweeps in batches until a batch marks nothing or ctx is done.
func (s *OverdueSweep) Run(ctx context.Context) (int, error) {
	start := time.Now()
	asOf := s.clock()
	total := 0

	for {
		marked, err := s.status.MarkOverdue(ctx, asOf, s.batchSize)
		total += marked
		s.metrics.RecordOverdueMarked(marked)

		if err != nil {
			s.logger.Error("Overdue sweep failed",
				zap.Int("marked", total),
				zap.Error(err))
			return total, err
		}

		if marked == 0 || marked < s.batchSize {
			break
		}
	}

	s.logger.Info("Overdue sweep completed",
		zap.Time("asOf", asOf),
		zap.Int("marked", total),
		zap.Duration("duration", time.Since(start)))

	return total, nil
}
