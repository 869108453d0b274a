package dispatch

import (
	"context"
	"io"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// DEFAULT_FRAME_BUDGET is the time a single Pump may spend running units.
	DEFAULT_FRAME_BUDGET = time.Second / 60
)

// Func is a unit of work.
type Func func(ctx context.Context) error

// Scheduler is the submission side of a Dispatcher.
type Scheduler interface {
	Invoke(ctx context.Context, fn Func) error
	InvokeAsync(ctx context.Context, fn Func) *Operation
	Go(ctx context.Context, fn Func) *Operation
	CheckAccess(ctx context.Context) bool
}

var _ Scheduler = (*Dispatcher)(nil)

// Stats are cumulative counters.
type Stats struct {
	Enqueued uint64
	Executed uint64
	Failed   uint64
	Canceled uint64
	Panicked uint64
}

type unit struct {
	ctx context.Context
	fn  Func
	op  *Operation

	// delivery units carry a finished background body's result.
	delivery bool
}

// Dispatcher is a FIFO queue of units drained by an external pump.
// Submission is safe from any goroutine; pumping must happen on one goroutine.
type Dispatcher struct {
	budget time.Duration
	now    func() time.Time
	logger *log.Logger

	mu      sync.Mutex
	queue   []*unit
	orphans []*unit
	closed  bool
	wake    chan struct{}
	bodies  sync.WaitGroup

	enqueued atomic.Uint64
	executed atomic.Uint64
	failed   atomic.Uint64
	canceled atomic.Uint64
	panicked atomic.Uint64
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithFrameBudget sets the time RunUntil spends per Pump.
func WithFrameBudget(d time.Duration) Option {
	return func(x *Dispatcher) {
		if d > 0 {
			x.budget = d
		}
	}
}

// WithLogger sets the logger. Defaults to a logger that discards everything.
func WithLogger(l *log.Logger) Option {
	return func(x *Dispatcher) {
		if l != nil {
			x.logger = l
		}
	}
}

// WithClock replaces time.Now for budget accounting.
func WithClock(now func() time.Time) Option {
	return func(x *Dispatcher) {
		if now != nil {
			x.now = now
		}
	}
}

// New creates an empty dispatcher.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		budget: DEFAULT_FRAME_BUDGET,
		now:    time.Now,
		logger: log.New(io.Discard),
		wake:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// FrameBudget returns the configured budget.
func (d *Dispatcher) FrameBudget() time.Duration {
	return d.budget
}

type accessKey struct{}

// CheckAccess reports whether ctx belongs to a unit running on d.
func (d *Dispatcher) CheckAccess(ctx context.Context) bool {
	owner, _ := ctx.Value(accessKey{}).(*Dispatcher)
	return owner == d
}

// VerifyAccess returns ErrWrongThread unless CheckAccess(ctx).
func (d *Dispatcher) VerifyAccess(ctx context.Context) error {
	if !d.CheckAccess(ctx) {
		return ErrWrongThread
	}
	return nil
}

func (d *Dispatcher) enqueue(u *unit) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	d.queue = append(d.queue, u)
	d.mu.Unlock()
	d.enqueued.Add(1)

	select {
	case d.wake <- struct{}{}:
	default:
	}
	return nil
}

func (d *Dispatcher) pop() *unit {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.queue) == 0 {
		return nil
	}
	u := d.queue[0]
	d.queue[0] = nil
	d.queue = d.queue[1:]
	return u
}

// Len returns the number of queued units.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// InvokeAsync queues fn and returns immediately.
func (d *Dispatcher) InvokeAsync(ctx context.Context, fn Func) *Operation {
	op := newOperation()
	if err := d.enqueue(&unit{ctx: ctx, fn: fn, op: op}); err != nil {
		op.complete(err)
	}
	return op
}

// Invoke runs fn on the dispatcher and waits for it. Called from inside a
// unit it runs fn inline. Called from the pumping goroutine outside a unit it
// deadlocks.
func (d *Dispatcher) Invoke(ctx context.Context, fn Func) error {
	if d.CheckAccess(ctx) {
		u := &unit{ctx: ctx, fn: fn, op: newOperation()}
		d.enqueued.Add(1)
		d.execute(u)
		return u.op.Result()
	}
	return d.InvokeAsync(ctx, fn).Wait(ctx)
}

// Go runs fn on a new goroutine and delivers its completion onto the
// dispatcher, so OnComplete callbacks run on the dispatcher thread.
// The body's context is not marked as owning the dispatcher.
// A body that finishes after Close is completed by Close.
func (d *Dispatcher) Go(ctx context.Context, fn Func) *Operation {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return failedOperation(ErrClosed)
	}
	d.bodies.Add(1)
	d.mu.Unlock()

	op := newOperation()
	bodyCtx := context.WithValue(ctx, accessKey{}, (*Dispatcher)(nil))
	go func() {
		defer d.bodies.Done()
		err := d.runBody(bodyCtx, fn)
		deliver := &unit{
			ctx:      context.Background(),
			fn:       func(context.Context) error { return err },
			op:       op,
			delivery: true,
		}
		if d.enqueue(deliver) != nil {
			d.mu.Lock()
			d.orphans = append(d.orphans, deliver)
			d.mu.Unlock()
		}
	}()
	return op
}

func (d *Dispatcher) runBody(ctx context.Context, fn Func) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = d.recovered(r)
		}
	}()
	return fn(ctx)
}

func (d *Dispatcher) recovered(r any) error {
	pe := &PanicError{Value: r, Stack: debug.Stack()}
	d.panicked.Add(1)
	d.logger.Error("recovered panic in dispatched unit", "panic", r, "stack", string(pe.Stack))
	return pe
}

func (d *Dispatcher) execute(u *unit) {
	if err := u.ctx.Err(); err != nil {
		d.canceled.Add(1)
		u.op.complete(err)
		return
	}

	start := d.now()
	err := d.runBody(context.WithValue(u.ctx, accessKey{}, d), u.fn)
	if elapsed := d.now().Sub(start); elapsed > d.budget {
		d.logger.Debug("slow unit", "elapsed", elapsed, "budget", d.budget)
	}

	d.executed.Add(1)
	switch Classify(err) {
	case Failed:
		d.failed.Add(1)
	case Canceled:
		d.canceled.Add(1)
	}
	u.op.complete(err)
}

// RunUntil runs queued units in FIFO order until the queue is empty or budget
// has elapsed. At least one unit runs when the queue is not empty. Units queued
// while pumping run in the same call if the budget allows.
func (d *Dispatcher) RunUntil(budget time.Duration) int {
	start := d.now()
	n := 0
	for {
		u := d.pop()
		if u == nil {
			return n
		}
		d.execute(u)
		n++
		if d.now().Sub(start) >= budget {
			return n
		}
	}
}

// Drain runs units until the queue is empty.
func (d *Dispatcher) Drain() int {
	n := 0
	for u := d.pop(); u != nil; u = d.pop() {
		d.execute(u)
		n++
	}
	return n
}

// Pump runs one frame of work, or everything queued if drain is set.
func (d *Dispatcher) Pump(drain bool) int {
	if drain {
		return d.Drain()
	}
	return d.RunUntil(d.budget)
}

// Run pumps on every tick and whenever work is queued, until ctx is done.
// It is for hosts that have no loop of their own.
func (d *Dispatcher) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = d.budget
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.Pump(false)
		case <-d.wake:
			d.Pump(false)
		}
	}
}

// Close rejects further submissions and fails pending units with ErrClosed.
// It then waits for running background bodies and completes them with their
// own result on the calling goroutine. Cancel their contexts first; a body
// that never returns blocks Close.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	pending := d.queue
	d.queue = nil
	d.mu.Unlock()

	for _, u := range pending {
		d.abandon(u)
	}

	d.bodies.Wait()
	d.mu.Lock()
	orphans := d.orphans
	d.orphans = nil
	d.mu.Unlock()
	for _, u := range orphans {
		d.abandon(u)
	}
	return nil
}

func (d *Dispatcher) abandon(u *unit) {
	if u.delivery {
		u.op.complete(u.fn(u.ctx))
		return
	}
	d.failed.Add(1)
	u.op.complete(ErrClosed)
}

// Stats returns a snapshot of the counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Enqueued: d.enqueued.Load(),
		Executed: d.executed.Load(),
		Failed:   d.failed.Load(),
		Canceled: d.canceled.Load(),
		Panicked: d.panicked.Load(),
	}
}

// Delay suspends the caller for d or until ctx is done.
func Delay(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
