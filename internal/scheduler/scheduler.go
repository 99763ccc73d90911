package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sarmeyer/solstice-sky-viewer/internal/geo"
)

// Scheduler periodically sweeps expired entries out of the geocode cache.
type Scheduler struct {
	scheduler *gocron.Scheduler
	cache     *geo.Cache
	interval  time.Duration
}

// New creates a new Scheduler.
func New(cache *geo.Cache, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		cache:     cache,
		interval:  interval,
	}
}

// Start schedules the periodic sweep job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		if removed := s.cache.Sweep(); removed > 0 {
			log.Printf("scheduler: swept %d expired geocode cache entries", removed)
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
