package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Scheduler runs all periodic jobs on a fixed interval.
type Scheduler struct {
	service  *Service
	interval time.Duration
	done     chan struct{}
}

// NewScheduler returns a stopped Scheduler.
func NewScheduler(service *Service, interval time.Duration) *Scheduler {
	return &Scheduler{
		service:  service,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start runs the jobs in a background goroutine until Stop is called.
func (s *Scheduler) Start() {
	go func() {
		log.Info().Dur("interval", s.interval).Msg("job scheduler started")

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.RunAll(context.Background())
			case <-s.done:
				return
			}
		}
	}()
}

// Stop terminates the background goroutine.
func (s *Scheduler) Stop() {
	close(s.done)
}

// RunAll executes every job once. Job errors are logged, a failing job
// does not prevent the others from running.
func (s *Scheduler) RunAll(ctx context.Context) {
	type job struct {
		name string
		run  func(context.Context) (int, string, error)
	}

	for _, j := range []job{
		{"mark-expired-budgets", s.service.MarkExpiredBudgets},
		{"generate-final-statistics", s.service.GenerateFinalStatistics},
		{"generate-weekly-statistics", s.service.GenerateWeeklyStatistics},
		{"purge-old-notifications", s.service.PurgeOldNotifications},
	} {
		count, summary, err := j.run(ctx)
		if err != nil {
			log.Error().Err(err).Str("job", j.name).Msg("job failed")
			continue
		}

		log.Info().Str("job", j.name).Int("count", count).Msg(summary)
	}
}
