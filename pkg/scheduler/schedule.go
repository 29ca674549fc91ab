package scheduler

import (
	"fmt"
	"time"
)

// Schedule determines when a job fires next.
type Schedule interface {
	Next(from time.Time) time.Time
	String() string
}

type interval time.Duration

func (s interval) Next(from time.Time) time.Time {
	return from.Add(time.Duration(s))
}

func (s interval) String() string {
	return fmt.Sprintf("every %v", time.Duration(s))
}

// hourly fires at a fixed minute of every hour
type hourly struct {
	minute int
}

func (s hourly) Next(from time.Time) time.Time {
	next := time.Date(from.Year(), from.Month(), from.Day(), from.Hour(), s.minute, 0, 0, from.Location())
	if !next.After(from) {
		next = next.Add(time.Hour)
	}
	return next
}

func (s hourly) String() string {
	return fmt.Sprintf("hourly at :%02d", s.minute)
}

// daily fires once a day at a wall-clock time
type daily struct {
	hour, minute int
}

func (s daily) Next(from time.Time) time.Time {
	next := time.Date(from.Year(), from.Month(), from.Day(), s.hour, s.minute, 0, 0, from.Location())
	if !next.After(from) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (s daily) String() string {
	return fmt.Sprintf("daily at %02d:%02d", s.hour, s.minute)
}

// EveryInterval fires at fixed intervals counted from the previous fire.
// Non-positive durations fall back to one minute.
func EveryInterval(d time.Duration) Schedule {
	if d <= 0 {
		d = time.Minute
	}
	return interval(d)
}

func EveryMinutes(n int) Schedule {
	return EveryInterval(time.Duration(n) * time.Minute)
}

// HourlyAt fires every hour at minute (0-59).
func HourlyAt(minute int) Schedule {
	return hourly{minute: clamp(minute, 59)}
}

// DailyAt fires every day at hour:minute in the location of the clock.
func DailyAt(hour, minute int) Schedule {
	return daily{hour: clamp(hour, 23), minute: clamp(minute, 59)}
}

func clamp(v, hi int) int {
	return min(max(v, 0), hi)
}
