package notifier

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/suspectuso/airdrop-bot/internal/binance"
	"github.com/suspectuso/airdrop-bot/internal/storage"
)

// Source returns the current campaign snapshot
type Source interface {
	FetchAirdrops(ctx context.Context) ([]binance.Airdrop, error)
}

// Deliverer announces one airdrop on every channel
type Deliverer interface {
	Deliver(ctx context.Context, a binance.Airdrop) Outcome
}

// Stats is a point-in-time view of the poll loop
type Stats struct {
	Cycles        int64     `json:"cycles"`
	FetchFailures int64     `json:"fetch_failures"`
	Announced     int64     `json:"announced"`
	FailedSends   int64     `json:"failed_primary_sends"`
	LastPollAt    time.Time `json:"last_poll_at"`
	LastError     string    `json:"last_error,omitempty"`
	Interval      string    `json:"interval"`
}

// Poller detects new, non-ended airdrops and announces each one once
type Poller struct {
	source   Source
	deliver  Deliverer
	seen     *storage.SeenSet
	interval time.Duration
	log      *slog.Logger

	mu    sync.Mutex
	stats Stats
}

// NewPoller creates a new poll loop. The seen set is owned by the poller from here on.
func NewPoller(source Source, deliver Deliverer, seen *storage.SeenSet, interval time.Duration, log *slog.Logger) *Poller {
	return &Poller{
		source:   source,
		deliver:  deliver,
		seen:     seen,
		interval: interval,
		log:      log,
		stats:    Stats{Interval: interval.String()},
	}
}

// Run polls until ctx is cancelled. The first cycle runs immediately.
func (p *Poller) Run(ctx context.Context) {
	p.log.Info("airdrop poller started", "interval", p.interval)

	for {
		p.Cycle(ctx)

		select {
		case <-ctx.Done():
			p.log.Info("airdrop poller stopped")
			return
		case <-time.After(p.interval):
		}
	}
}

// Cycle runs one fetch, filter and dispatch pass. Records are delivered
// one at a time in response order; a fetch failure leaves all state untouched.
func (p *Poller) Cycle(ctx context.Context) {
	airdrops, err := p.source.FetchAirdrops(ctx)
	if err != nil {
		p.log.Error("fetch airdrops", "error", err)
		p.record(func(s *Stats) {
			s.FetchFailures++
			s.LastError = err.Error()
		})
		return
	}

	var announced, failed int64
	for _, a := range airdrops {
		if a.IsEnded() || !p.seen.IsNovel(a.ConfigID) {
			continue
		}

		out := p.deliver.Deliver(ctx, a)
		if !out.PrimarySucceeded {
			// left unseen, retried next cycle
			failed++
			continue
		}
		p.seen.MarkSeen(a.ConfigID)
		announced++
	}

	p.log.Debug("poll cycle complete", "configs", len(airdrops), "announced", announced, "failed", failed, "seen", p.seen.Len())
	p.record(func(s *Stats) {
		s.Announced += announced
		s.FailedSends += failed
		s.LastError = ""
	})
}

// Stats returns a copy of the loop counters
func (p *Poller) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

func (p *Poller) record(update func(s *Stats)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats.Cycles++
	p.stats.LastPollAt = time.Now()
	update(&p.stats)
}
