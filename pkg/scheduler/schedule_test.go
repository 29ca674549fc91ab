package scheduler_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/helpdesk/pkg/scheduler"
)

func TestSchedules(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 1, 31, 23, 45, 10, 0, time.UTC)

	tests := []struct {
		name     string
		schedule scheduler.Schedule
		want     time.Time
		str      string
	}{
		{"interval", scheduler.EveryInterval(30 * time.Second), base.Add(30 * time.Second), "every 30s"},
		{"minutes", scheduler.EveryMinutes(5), base.Add(5 * time.Minute), "every 5m0s"},
		{"non-positive interval", scheduler.EveryInterval(0), base.Add(time.Minute), "every 1m0s"},
		{"hourly later this hour", scheduler.HourlyAt(50), time.Date(2024, 1, 31, 23, 50, 0, 0, time.UTC), "hourly at :50"},
		{"hourly rolls over the day", scheduler.HourlyAt(15), time.Date(2024, 2, 1, 0, 15, 0, 0, time.UTC), "hourly at :15"},
		{"daily rolls over the month", scheduler.DailyAt(3, 0), time.Date(2024, 2, 1, 3, 0, 0, 0, time.UTC), "daily at 03:00"},
		{"daily later today", scheduler.DailyAt(23, 59), time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC), "daily at 23:59"},
		{"out of range is clamped", scheduler.DailyAt(99, -1), time.Date(2024, 2, 1, 23, 0, 0, 0, time.UTC), "daily at 23:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.schedule.Next(base))
			assert.Equal(t, tt.str, tt.schedule.String())
		})
	}
}
