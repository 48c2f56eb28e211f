package cron

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewScheduler(t *testing.T) {
	scheduler := NewScheduler("America/Toronto")
	assert.Equal(t, "America/Toronto", scheduler.Location().String())

	scheduler = NewScheduler("Not/AZone")
	assert.Equal(t, time.UTC, scheduler.Location())

	_, err := scheduler.Every(1).Hour().Tag("backup").Do(func() {})
	assert.Nil(t, err)

	_, err = scheduler.Every(1).Hour().Tag("backup").Do(func() {})
	assert.Error(t, err, "Tags should be unique")
}
