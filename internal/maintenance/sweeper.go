// Package maintenance runs scheduled housekeeping over the project store.
package maintenance

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ProjectJanitor is the slice of the project repository the sweeper needs.
type ProjectJanitor interface {
	CountOrphans(ctx context.Context, cutoff time.Time) (int64, error)
	PurgeOrphans(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sweeper periodically looks for orphan projects: created, never saved
// again, and older than the cutoff. Old clients raced their bootstrap and
// left these behind. By default it only reports; purging must be opted
// into, since project deletion is otherwise not part of the system.
type Sweeper struct {
	repo   ProjectJanitor
	maxAge time.Duration
	purge  bool
	log    *zap.Logger
	cron   *cron.Cron
}

func NewSweeper(repo ProjectJanitor, maxAge time.Duration, purge bool, log *zap.Logger) *Sweeper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sweeper{repo: repo, maxAge: maxAge, purge: purge, log: log}
}

// Start schedules the sweep. schedule takes cron syntax or descriptors
// like "@hourly".
func (s *Sweeper) Start(schedule string) error {
	c := cron.New()
	if _, err := c.AddFunc(schedule, s.Sweep); err != nil {
		return err
	}
	c.Start()
	s.cron = c
	s.log.Info("maintenance sweeper started",
		zap.String("schedule", schedule),
		zap.Duration("orphan_max_age", s.maxAge),
		zap.Bool("purge", s.purge),
	)
	return nil
}

func (s *Sweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Sweeper) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-s.maxAge)

	if s.purge {
		n, err := s.repo.PurgeOrphans(ctx, cutoff)
		if err != nil {
			s.log.Error("orphan purge failed", zap.Error(err))
			return
		}
		if n > 0 {
			s.log.Info("purged orphan projects", zap.Int64("count", n))
		}
		return
	}

	n, err := s.repo.CountOrphans(ctx, cutoff)
	if err != nil {
		s.log.Error("orphan count failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.log.Info("orphan projects found (purge disabled)", zap.Int64("count", n))
	}
}
