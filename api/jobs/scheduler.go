package jobs

import (
	"context"
	"time"

	"Warbler/api/models"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// PurgeSpec is how often expired reset tokens are removed.
const PurgeSpec = "@every 1h"

type Scheduler struct {
	cron   *cron.Cron
	db     *gorm.DB
	logger zerolog.Logger
}

func NewScheduler(db *gorm.DB, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		db:     db,
		logger: logger,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(PurgeSpec, func() { s.PurgeResetTokens() }); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop waits for running jobs up to the context deadline.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) PurgeResetTokens() int64 {
	purged, err := models.PurgeExpiredResetTokens(s.db, time.Now())
	if err != nil {
		s.logger.Error().Err(err).Msg("purge expired reset tokens")
		return 0
	}
	if purged > 0 {
		s.logger.Info().Int64("purged", purged).Msg("purged expired reset tokens")
	}
	return purged
}
