package cron

import (
	"time"

	"github.com/go-co-op/gocron"
)

// NewScheduler returns a scheduler running in 'timeZone', or UTC when the zone is unknown.
func NewScheduler(timeZone string) *gocron.Scheduler {
	location, err := time.LoadLocation(timeZone)
	if err != nil {
		location = time.UTC
	}

	scheduler := gocron.NewScheduler(location)
	scheduler.TagsUnique()

	return scheduler
}
