package utils

import (
	cron "github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StartScheduler runs job on the given cron spec until the returned
// scheduler is stopped.
func StartScheduler(log *zap.Logger, spec, name string, job func()) (*cron.Cron, error) {
	c := cron.New()

	if _, err := c.AddFunc(spec, func() {
		log.Info("scheduled job started", zap.String("job", name))
		job()
	}); err != nil {
		return nil, err
	}

	c.Start()
	log.Info("scheduler started", zap.String("job", name), zap.String("spec", spec))
	return c, nil
}
