package input

import (
	"sync"

	game_log "github.com/ingyamilmolinar/astral/internal/log"
)

// Aggregator collects events from every registered source once per frame and
// hands them to a single consumer.
type Aggregator struct {
	mu      sync.Mutex
	sources []Source
	queue   []Event
	logger  *game_log.Logger
}

func NewAggregator(logger *game_log.Logger) *Aggregator {
	return &Aggregator{logger: logger.Named("INPUT")}
}

// AddSource registers src for the aggregator's lifetime.
func (a *Aggregator) AddSource(src Source) {
	a.mu.Lock()
	a.sources = append(a.sources, src)
	a.mu.Unlock()
}

// Update polls every source in registration order.
func (a *Aggregator) Update(currentTime float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, src := range a.sources {
		evs := src.Poll(currentTime)
		if len(evs) == 0 {
			continue
		}
		a.logger.Debugf("t=%.3f polled %d events", currentTime, len(evs))
		a.queue = append(a.queue, evs...)
	}
}

// Poll returns the queued events and empties the queue.
func (a *Aggregator) Poll() []Event {
	a.mu.Lock()
	events := a.queue
	a.queue = nil
	a.mu.Unlock()
	return events
}
