// Package audit delivers audit entries to storage in the background.
// Recording never blocks a mutation and never fails one: when the pool
// is saturated the entry is dropped and counted, not queued unbounded.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/audit"
)

const defaultWriteTimeout = 5 * time.Second

type Recorder struct {
	repo    audit.Repository
	pool    *ants.Pool
	logger  *slog.Logger
	now     func() time.Time
	dropped atomic.Int64
}

func NewRecorder(repo audit.Repository, workers int, logger *slog.Logger) (*Recorder, error) {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	pool, err := ants.NewPool(workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("create audit worker pool: %w", err)
	}

	return &Recorder{
		repo:   repo,
		pool:   pool,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Record submits the entry for background persistence. The write uses
// its own context so a finished request cannot cancel it.
func (r *Recorder) Record(ctx context.Context, e audit.Entry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = r.now().UTC()
	}

	if err := r.pool.Submit(func() {
		writeCtx, cancel := context.WithTimeout(context.Background(), defaultWriteTimeout)
		defer cancel()

		if err := r.repo.Insert(writeCtx, e); err != nil {
			r.logger.WarnContext(writeCtx, "audit write failed",
				slog.String("actionType", e.ActionType),
				slog.String("entityType", e.EntityType),
				slog.Any("error", err),
			)
		}
	}); err != nil {
		r.dropped.Add(1)
		r.logger.WarnContext(ctx, "audit entry dropped",
			slog.String("actionType", e.ActionType),
			slog.Int64("droppedTotal", r.dropped.Load()),
		)
	}
}

// Dropped reports how many entries were discarded because the pool was
// saturated.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

func (r *Recorder) Close() {
	r.pool.Release()
}
