package autosave

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jonathan/portfolio-keeper/internal/types"
)

// manualClock fires timers only when the test advances it.
type manualClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// Advance moves time forward and runs every timer that comes due, in order.
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*manualTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.f()
	}
}

// fakeSaver records saved records and fails with err when set.
type fakeSaver struct {
	mu    sync.Mutex
	saved []types.PortfolioRecord
	err   error
	panic any
	// block, when non-nil, is waited on before each save returns.
	block chan struct{}
}

func (s *fakeSaver) Save(_ context.Context, record types.PortfolioRecord) error {
	s.mu.Lock()
	err, p, block := s.err, s.panic, s.block
	s.mu.Unlock()

	if block != nil {
		<-block
	}
	if p != nil {
		panic(p)
	}
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.saved = append(s.saved, record.Clone())
	s.mu.Unlock()
	return nil
}

func (s *fakeSaver) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *fakeSaver) names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.saved))
	for _, r := range s.saved {
		names = append(names, r.Name)
	}
	return names
}

var errQuota = errors.New("quota exceeded")

func validRecord(name string) types.PortfolioRecord {
	return types.Normalize(types.PortfolioRecord{Name: name, Email: "jane@example.com"})
}

func newTestCoordinator(saver Saver, opts ...Option) (*Coordinator, *manualClock) {
	clock := &manualClock{}
	opts = append([]Option{WithClock(clock)}, opts...)
	return NewCoordinator(validRecord("committed"), saver, opts...), clock
}
