package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Abishek0612/student-revision-app-client/internal/metrics"
	"github.com/Abishek0612/student-revision-app-client/internal/store"
)

// DefaultInterval is used when the configured interval is not positive.
const DefaultInterval = 3 * time.Second

var ErrAlreadyRunning = errors.New("poller already running")

// Documents is what the poller watches and refreshes.
type Documents interface {
	HasProcessing() bool
	Refresh(ctx context.Context) error
}

// Poller refreshes the document list on a timer while any document is
// processing. The timer exists only while that holds.
type Poller struct {
	st       *store.Store
	docs     Documents
	interval time.Duration
	metrics  *metrics.Metrics
	log      *slog.Logger

	running atomic.Bool
	armed   atomic.Bool
}

func New(st *store.Store, docs Documents, interval time.Duration, m *metrics.Metrics, log *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		st:       st,
		docs:     docs,
		interval: interval,
		metrics:  m,
		log:      log.With("component", "poller"),
	}
}

// Armed reports whether the timer is currently active.
func (p *Poller) Armed() bool { return p.armed.Load() }

// Run watches the state tree until ctx is done. Ticks do not wait for the
// previous refresh; overlapping refreshes are harmless because each replaces
// the list wholesale. On return the timer is stopped and all refreshes have
// finished.
func (p *Poller) Run(ctx context.Context) error {
	if !p.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer p.running.Store(false)

	changes, unsubscribe := p.st.Subscribe()
	defer unsubscribe()

	var (
		ticker *time.Ticker
		tick   <-chan time.Time
		wg     sync.WaitGroup
	)
	disarm := func() {
		if ticker == nil {
			return
		}
		ticker.Stop()
		ticker, tick = nil, nil
		p.setArmed(false)
	}
	defer func() {
		disarm()
		wg.Wait()
	}()

	evaluate := func() {
		if !p.docs.HasProcessing() {
			disarm()
			return
		}
		if ticker == nil {
			ticker = time.NewTicker(p.interval)
			tick = ticker.C
			p.setArmed(true)
		}
	}

	evaluate()
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			evaluate()
		case <-tick:
			p.metrics.PollTick()
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := p.docs.Refresh(ctx); err != nil && ctx.Err() == nil {
					p.log.Warn("poll refresh failed", "err", err)
				}
			}()
		}
	}
}

func (p *Poller) setArmed(armed bool) {
	p.armed.Store(armed)
	p.metrics.SetPollerArmed(armed)
	if armed {
		p.log.Debug("armed", "interval", p.interval)
	} else {
		p.log.Debug("disarmed")
	}
}
