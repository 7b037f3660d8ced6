package simulator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"cryptoflow/market"
	"cryptoflow/metrics"
	"cryptoflow/middleware"
	"cryptoflow/utils"
)

const (
	DefaultFrequency = 2000 * time.Millisecond

	// UpdateErrorMessage is what observers see after a failed tick.
	UpdateErrorMessage = "Failed to update crypto data"
)

// Target is the state the scheduler drives. *market.Store satisfies it.
type Target interface {
	AdvanceTick() error
	SetError(msg string)
}

// Ticker is the periodic source behind the scheduler; time.Ticker in production.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type TickerFactory func(d time.Duration) Ticker

type timeTicker struct{ *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.Ticker.C }

func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{time.NewTicker(d)}
}

// Scheduler fires AdvanceTick on a fixed period from a single goroutine.
// Ticks never overlap: a tick that outlasts the period makes the ticker drop
// the missed firings.
type Scheduler struct {
	target    Target
	newTicker TickerFactory
	onTick    func(error)

	mu     sync.Mutex
	freq   time.Duration
	parent context.Context
	cancel context.CancelFunc
	done   chan struct{}

	ticks    atomic.Uint64
	failures atomic.Uint64
}

type Option func(*Scheduler)

func WithFrequency(d time.Duration) Option {
	return func(s *Scheduler) { s.freq = d }
}

func WithTickerFactory(f TickerFactory) Option {
	return func(s *Scheduler) { s.newTicker = f }
}

// WithOnTick registers a hook called after every firing with its outcome
// (nil or an *market.UpdateFailure). It must not call back into the scheduler.
func WithOnTick(fn func(error)) Option {
	return func(s *Scheduler) { s.onTick = fn }
}

func New(target Target, opts ...Option) (*Scheduler, error) {
	if target == nil {
		return nil, fmt.Errorf("scheduler target is nil")
	}
	s := &Scheduler{
		target:    target,
		newTicker: NewTimeTicker,
		freq:      DefaultFrequency,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.freq <= 0 {
		return nil, fmt.Errorf("frequency must be positive, got %s", s.freq)
	}
	return s, nil
}

// Connect starts the periodic feed. A running feed is stopped first, so at most
// one ticker is ever active. The feed also stops when ctx ends.
func (s *Scheduler) Connect(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	utils.Logger.Infow("Connecting to simulated crypto feed", "frequency", s.freq.String())
	if s.done != nil {
		s.stopLocked()
	}
	s.parent = ctx
	s.startLocked()
	utils.Logger.Infow("Connected to simulated crypto feed")
}

// Disconnect stops the feed and waits for an in-flight tick to finish. No tick
// fires after it returns. It is a no-op when already stopped.
func (s *Scheduler) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done == nil {
		return
	}
	s.stopLocked()
	utils.Logger.Infow("Disconnected from simulated crypto feed")
}

// SetFrequency changes the period, restarting the feed when it is running.
func (s *Scheduler) SetFrequency(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("frequency must be positive, got %s", d)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.freq = d
	if s.runningLocked() {
		s.stopLocked()
		s.startLocked()
		utils.Logger.Infow("Feed restarted with new frequency", "frequency", d.String())
	}
	return nil
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runningLocked()
}

func (s *Scheduler) Frequency() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.freq
}

// Ticks counts successful ticks since construction.
func (s *Scheduler) Ticks() uint64 { return s.ticks.Load() }

func (s *Scheduler) Failures() uint64 { return s.failures.Load() }

func (s *Scheduler) runningLocked() bool {
	if s.done == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

func (s *Scheduler) startLocked() {
	ctx, cancel := context.WithCancel(s.parent)
	done := make(chan struct{})
	t := s.newTicker(s.freq)

	s.cancel = cancel
	s.done = done
	go s.run(ctx, t, done)
}

func (s *Scheduler) stopLocked() {
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
}

func (s *Scheduler) run(ctx context.Context, t Ticker, done chan struct{}) {
	defer close(done)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C():
			// Both cases may be ready; a cancelled feed must not tick again.
			if ctx.Err() != nil {
				return
			}
			s.fire()
		}
	}
}

func (s *Scheduler) fire() {
	start := time.Now()
	err := middleware.Recover(s.target.AdvanceTick)
	metrics.RecordTickDuration(time.Since(start))

	if err != nil {
		var failure *market.UpdateFailure
		if !errors.As(err, &failure) {
			err = &market.UpdateFailure{Reason: err.Error(), Err: err}
		}
		s.failures.Add(1)
		metrics.IncrementErrors()
		utils.Error(err, "Error updating crypto data")
		s.target.SetError(UpdateErrorMessage)
	} else {
		s.ticks.Add(1)
		metrics.IncrementTicks()
	}

	if s.onTick != nil {
		s.onTick(err)
	}
}
