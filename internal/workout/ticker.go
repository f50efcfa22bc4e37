package workout

import (
	"sync"
	"time"

	"github.com/robfig/cron"
)

// Ticker is a cancellable periodic timer owned by whoever drives the engine.
type Ticker interface {
	Stop()
}

// TickerFunc starts a Ticker calling fn every interval.
type TickerFunc func(interval time.Duration, fn func()) Ticker

type cronTicker struct {
	c    *cron.Cron
	once sync.Once
}

// StartTicker schedules fn on its own cron instance. Intervals below one
// second are rounded up to one second.
func StartTicker(interval time.Duration, fn func()) Ticker {
	c := cron.New()
	c.Schedule(cron.Every(interval), cron.FuncJob(fn))
	c.Start()
	return &cronTicker{c: c}
}

// Stop is safe to call more than once.
func (t *cronTicker) Stop() {
	t.once.Do(t.c.Stop)
}
