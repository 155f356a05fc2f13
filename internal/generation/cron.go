package generation

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// cron wraps a gocron scheduler for periodic maintenance tasks.
type cron struct {
	scheduler gocron.Scheduler
}

func newCron() (*cron, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &cron{scheduler: s}, nil
}

// every schedules task at a fixed interval and returns the job id.
func (c *cron) every(interval time.Duration, name string, task func()) (string, error) {
	job, err := c.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create %s job: %w", name, err)
	}
	return job.ID().String(), nil
}

func (c *cron) start() {
	c.scheduler.Start()
}

func (c *cron) stop() error {
	return c.scheduler.Shutdown()
}
