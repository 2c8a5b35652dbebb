package competition

import (
	"context"
	"time"

	"bitebase/internal/logging"

	"github.com/robfig/cron/v3"
)

// StartScheduler runs RecomputeAll on the given cron spec until the returned
// scheduler is stopped.
func StartScheduler(service *Service, spec string) (*cron.Cron, error) {
	logger := logging.For("competition")
	c := cron.New()

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		updated, err := service.RecomputeAll(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("scheduled recompute failed")
			return
		}
		logger.Info().Int("updated", updated).Msg("scheduled recompute finished")
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	logger.Info().Str("spec", spec).Msg("snapshot scheduler started")
	return c, nil
}
