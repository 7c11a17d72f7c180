// Package ticker refreshes the live price snapshot on its own timer,
// independent of chat traffic, and fans updates out to subscribers.
package ticker

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/pitchlabs/pitchroom/internal/service/enrich"
)

// Service polls the price feed and broadcasts snapshots.
type Service struct {
	price    *enrich.PriceClient
	interval time.Duration

	mu     sync.RWMutex
	latest *enrich.Snapshot
	subs   map[chan *enrich.Snapshot]struct{}
}

// NewService builds the ticker. Intervals under a second are raised to the
// price feed's cache window lower bound.
func NewService(price *enrich.PriceClient, interval time.Duration) *Service {
	if interval < time.Second {
		interval = time.Second
	}
	return &Service{
		price:    price,
		interval: interval,
		subs:     make(map[chan *enrich.Snapshot]struct{}),
	}
}

// Run polls until the context ends. A failed refresh keeps the previous
// snapshot; chat operations never wait on this loop.
func (s *Service) Run(ctx context.Context) {
	s.refresh(ctx)

	t := time.NewTicker(s.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.refresh(ctx)
		}
	}
}

func (s *Service) refresh(ctx context.Context) {
	fetchCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	snapshot, err := s.price.Fetch(fetchCtx)
	if err != nil {
		log.Printf("[ticker] refresh skipped: %v", err)
		return
	}

	s.mu.Lock()
	s.latest = snapshot
	for sub := range s.subs {
		// Drop the update for slow subscribers rather than block the loop.
		select {
		case sub <- snapshot:
		default:
		}
	}
	s.mu.Unlock()
}

// Latest returns the most recent snapshot, or nil before the first
// successful refresh.
func (s *Service) Latest() *enrich.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Subscribe registers for snapshot updates. The returned cancel function
// must be called when the subscriber goes away.
func (s *Service) Subscribe() (<-chan *enrich.Snapshot, func()) {
	ch := make(chan *enrich.Snapshot, 1)

	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		delete(s.subs, ch)
		s.mu.Unlock()
	}
	return ch, cancel
}
