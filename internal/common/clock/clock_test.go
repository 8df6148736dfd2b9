package clock_test

import (
	"testing"
	"time"

	"github.com/aniwatch/backend/internal/common/clock"
)

func TestMockClock(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := clock.NewMockClock(start)

	if !c.Now().Equal(start) {
		t.Errorf("expected %v, got %v", start, c.Now())
	}

	c.Advance(time.Hour)
	if !c.Now().Equal(start.Add(time.Hour)) {
		t.Errorf("expected time to advance by 1h, got %v", c.Now())
	}

	if got := c.Since(start); got != time.Hour {
		t.Errorf("expected Since of 1h, got %v", got)
	}

	later := start.Add(48 * time.Hour)
	c.SetTime(later)
	if !c.Now().Equal(later) {
		t.Errorf("expected %v after SetTime, got %v", later, c.Now())
	}
}

func TestRealClock(t *testing.T) {
	c := clock.NewRealClock()

	before := time.Now()
	now := c.Now()
	if now.Before(before.Add(-time.Second)) {
		t.Errorf("expected a current timestamp, got %v", now)
	}

	if c.Since(now.Add(-time.Minute)) < time.Minute {
		t.Error("expected Since to measure elapsed time")
	}
}
