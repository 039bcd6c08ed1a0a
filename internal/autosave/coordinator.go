// Package autosave holds the editable draft of the portfolio and saves it after edits
// settle.
//
// Every Update replaces the draft with an edited copy and restarts a debounce timer.
// When the timer fires the draft is validated and handed to the Saver; on success it
// becomes the committed record. Only the last edit in a burst is written. Saves never
// overlap, and a timer superseded by a later edit, Reset or Close never writes.
package autosave

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonathan/portfolio-keeper/internal/logging"
	"github.com/jonathan/portfolio-keeper/internal/types"
)

// DefaultDelay is the quiet period after the last edit before a save runs.
const DefaultDelay = 500 * time.Millisecond

// Saver durably stores a record. A nil error means the record was written.
type Saver interface {
	Save(ctx context.Context, record types.PortfolioRecord) error
}

// Edit transforms the draft. It receives a private copy and may modify it in place.
type Edit func(types.PortfolioRecord) types.PortfolioRecord

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(clock Clock) Option {
	return func(c *Coordinator) {
		c.clock = clock
	}
}

// WithDelay sets the debounce delay. Non-positive values keep the default.
func WithDelay(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.delay = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) Option {
	return func(c *Coordinator) {
		c.log = logging.OrNop(log)
	}
}

// WithStatusListener registers fn to be called after every status change.
// Listeners run outside the coordinator's lock and must not block for long.
func WithStatusListener(fn func(Status)) Option {
	return func(c *Coordinator) {
		if fn != nil {
			c.listeners = append(c.listeners, fn)
		}
	}
}

// Coordinator owns the draft and committed records and the save schedule.
type Coordinator struct {
	saver     Saver
	clock     Clock
	delay     time.Duration
	log       *logging.Logger
	listeners []func(Status)

	// saveMu serializes calls into the saver. It is always taken before mu.
	saveMu sync.Mutex

	mu        sync.Mutex
	draft     types.PortfolioRecord
	committed types.PortfolioRecord
	status    Status
	statusSeq uint64
	timer     Timer
	gen       uint64
	closed    bool

	// notifyMu orders listener calls. It is taken before mu.
	notifyMu    sync.Mutex
	notifiedSeq uint64
}

// NewCoordinator starts with committed as both the draft and the committed record.
func NewCoordinator(committed types.PortfolioRecord, saver Saver, opts ...Option) *Coordinator {
	c := &Coordinator{
		saver:     saver,
		clock:     RealClock{},
		delay:     DefaultDelay,
		log:       logging.Nop(),
		draft:     committed.Clone(),
		committed: committed.Clone(),
		status:    Status{State: StateIdle},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Draft returns a copy of the record being edited.
func (c *Coordinator) Draft() types.PortfolioRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Clone()
}

// Committed returns a copy of the last successfully saved record.
func (c *Coordinator) Committed() types.PortfolioRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.committed.Clone()
}

// Status returns the current save status.
func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Pending reports whether a debounced save is scheduled.
func (c *Coordinator) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer != nil
}

// Update applies edit to a copy of the draft, then restarts the debounce timer.
// If edit panics the draft and the schedule are left as they were.
func (c *Coordinator) Update(edit Edit) error {
	if err := c.update(edit); err != nil {
		return err
	}
	c.notify()
	return nil
}

func (c *Coordinator) update(edit Edit) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.draft = edit(c.draft.Clone())
	c.gen++
	gen := c.gen
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = c.clock.AfterFunc(c.delay, func() {
		_ = c.run(context.Background(), gen)
	})
	c.setStatusLocked(Status{State: StateSaving})
	return nil
}

// Reset replaces both draft and committed with record and cancels any pending save.
// It waits for an in-flight save to finish so the old draft cannot land afterwards.
func (c *Coordinator) Reset(record types.PortfolioRecord) {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	c.mu.Lock()
	c.cancelLocked()
	c.draft = record.Clone()
	c.committed = record.Clone()
	c.setStatusLocked(Status{State: StateIdle})
	c.mu.Unlock()

	c.notify()
}

// Commit saves record immediately, bypassing the debounce. On success any pending
// save is cancelled and record becomes both draft and committed. On failure nothing
// changes and the error is returned.
func (c *Coordinator) Commit(ctx context.Context, record types.PortfolioRecord) error {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	if err := c.saver.Save(ctx, record); err != nil {
		return err
	}

	c.mu.Lock()
	c.cancelLocked()
	c.draft = record.Clone()
	c.committed = record.Clone()
	c.setStatusLocked(Status{State: StateSaved})
	c.mu.Unlock()

	c.notify()
	return nil
}

// Cancel drops the pending save, if any. The draft keeps its unsaved edits.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	if c.timer == nil {
		c.mu.Unlock()
		return
	}
	c.cancelLocked()
	c.setStatusLocked(Status{State: StateIdle})
	c.mu.Unlock()

	c.notify()
}

// Flush runs a pending save now instead of waiting for the timer. It returns nil
// when nothing was pending.
func (c *Coordinator) Flush(ctx context.Context) error {
	c.mu.Lock()
	if c.timer == nil || c.closed {
		c.mu.Unlock()
		return nil
	}
	c.timer.Stop()
	gen := c.gen
	c.mu.Unlock()

	return c.run(ctx, gen)
}

// Close cancels the pending save. Later timer callbacks and Updates are ignored.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.cancelLocked()
	c.closed = true
}

// run performs the save scheduled for generation gen, unless it has been superseded.
func (c *Coordinator) run(ctx context.Context, gen uint64) error {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	c.mu.Lock()
	// A nil timer means this generation was already saved by Flush or the timer.
	if c.closed || gen != c.gen || c.timer == nil {
		c.mu.Unlock()
		return nil
	}
	c.timer = nil
	draft := c.draft.Clone()
	c.mu.Unlock()

	status, err := c.save(ctx, draft)

	c.mu.Lock()
	if err == nil {
		c.committed = draft
	}
	current := gen == c.gen
	if current {
		status = c.setStatusLocked(status)
	}
	c.mu.Unlock()

	if current {
		c.notify()
	}
	if err != nil {
		return &SaveError{Status: status, Cause: err}
	}
	return nil
}

func (c *Coordinator) save(ctx context.Context, draft types.PortfolioRecord) (status Status, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("Auto-save panicked", "panic", r)
			status = Status{State: StateError, Kind: ErrorUnknown}
			err = fmt.Errorf("autosave: panic during save: %v", r)
		}
	}()

	if verr := draft.Validate(); verr != nil {
		c.log.Debug("Draft failed validation, not saving", "error", verr)
		return Status{State: StateError, Kind: ErrorValidation}, verr
	}
	if serr := c.saver.Save(ctx, draft); serr != nil {
		c.log.Warn("Auto-save failed", "error", serr)
		return Status{State: StateError, Kind: ErrorStorage, Reason: serr.Error()}, serr
	}
	c.log.Debug("Auto-save complete")
	return Status{State: StateSaved}, nil
}

func (c *Coordinator) cancelLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
}

func (c *Coordinator) setStatusLocked(s Status) Status {
	c.status = s
	c.statusSeq++
	return s
}

// notify sends the current status to listeners. Calls are serialized and a status
// already delivered is not sent again, so the last status a listener sees is
// always the current one.
func (c *Coordinator) notify() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	s, seq := c.status, c.statusSeq
	c.mu.Unlock()

	if seq == c.notifiedSeq {
		return
	}
	c.notifiedSeq = seq
	for _, fn := range c.listeners {
		fn(s)
	}
}
