package schedule

import (
	"sync"
	"time"
)

// Handle is a cancellable repeating task. Stop is idempotent.
type Handle interface {
	Stop()
}

// Scheduler runs fn every interval until the returned handle is stopped.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Handle
}

type TickerScheduler struct{}

func (TickerScheduler) Every(interval time.Duration, fn func()) Handle {
	h := &tickerHandle{stop: make(chan struct{})}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-h.stop:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
	return h
}

type tickerHandle struct {
	once sync.Once
	stop chan struct{}
}

func (h *tickerHandle) Stop() {
	h.once.Do(func() { close(h.stop) })
}
