package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"emiscal_backend/internals/features/calendar/repository"
)

type PurgeConfig struct {
	CronSchedule  string // default "15 2 * * *"
	RetentionDays int    // default 30
}

// Purger hard-deletes events whose soft delete is older than the retention.
type Purger struct {
	events repository.EventRepository
	cfg    PurgeConfig
	cron   *cron.Cron
	now    func() time.Time
}

func NewPurger(events repository.EventRepository, cfg PurgeConfig) *Purger {
	if cfg.CronSchedule == "" {
		cfg.CronSchedule = "15 2 * * *"
	}
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = 30
	}
	return &Purger{
		events: events,
		cfg:    cfg,
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		now:    time.Now,
	}
}

// RunOnce purges once and reports how many rows went away.
func (p *Purger) RunOnce(ctx context.Context) (int64, error) {
	before := p.now().Add(-time.Duration(p.cfg.RetentionDays) * 24 * time.Hour)
	n, err := p.events.PurgeDeleted(ctx, before)
	if err != nil {
		return 0, err
	}
	log.Printf("[PURGE] %d soft-deleted events older than %s removed", n, before.Format(time.RFC3339))
	return n, nil
}

// Start registers the job and starts the cron loop in the background.
func (p *Purger) Start() error {
	_, err := p.cron.AddFunc(p.cfg.CronSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
		defer cancel()
		if _, err := p.RunOnce(ctx); err != nil {
			log.Printf("[PURGE] error: %v", err)
		}
	})
	if err != nil {
		return err
	}
	log.Printf("[PURGE] started schedule=%q retention=%dd", p.cfg.CronSchedule, p.cfg.RetentionDays)
	p.cron.Start()
	return nil
}

// Stop waits for a running purge to finish or ctx to end.
func (p *Purger) Stop(ctx context.Context) {
	select {
	case <-p.cron.Stop().Done():
	case <-ctx.Done():
	}
}
