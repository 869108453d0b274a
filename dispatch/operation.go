package dispatch

import (
	"context"
	"sync"
)

// Operation is the completion handle of a submitted unit.
type Operation struct {
	done chan struct{}

	mu        sync.Mutex
	err       error
	completed bool
	callbacks []func(error)
}

func newOperation() *Operation {
	return &Operation{done: make(chan struct{})}
}

// Done is closed when the unit has completed.
func (o *Operation) Done() <-chan struct{} {
	return o.done
}

// Wait blocks until the unit completes or ctx is done.
func (o *Operation) Wait(ctx context.Context) error {
	select {
	case <-o.done:
		return o.Result()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Result returns the unit's error, or ErrPending while it has not completed.
func (o *Operation) Result() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.completed {
		return ErrPending
	}
	return o.err
}

// Outcome classifies the result. It is only meaningful once Done is closed.
func (o *Operation) Outcome() Outcome {
	return Classify(o.Result())
}

// OnComplete registers fn to run with the result. Callbacks registered before
// completion run on the dispatcher thread; after completion fn runs immediately
// on the caller.
func (o *Operation) OnComplete(fn func(err error)) {
	o.mu.Lock()
	if !o.completed {
		o.callbacks = append(o.callbacks, fn)
		o.mu.Unlock()
		return
	}
	err := o.err
	o.mu.Unlock()
	fn(err)
}

func (o *Operation) complete(err error) {
	o.mu.Lock()
	if o.completed {
		o.mu.Unlock()
		return
	}
	o.completed = true
	o.err = err
	callbacks := o.callbacks
	o.callbacks = nil
	close(o.done)
	o.mu.Unlock()

	for _, fn := range callbacks {
		fn(err)
	}
}

func failedOperation(err error) *Operation {
	o := newOperation()
	o.complete(err)
	return o
}

// Future is an Operation that also carries a value.
type Future[T any] struct {
	*Operation
	value T
}

// Value returns the result once the operation has completed.
func (f *Future[T]) Value() (T, error) {
	if err := f.Result(); err != nil {
		var zero T
		return zero, err
	}
	return f.value, nil
}

// Await waits for completion and returns the value.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	if err := f.Wait(ctx); err != nil {
		var zero T
		return zero, err
	}
	return f.value, nil
}

// Call runs fn on the scheduler and returns its value.
func Call[T any](ctx context.Context, s Scheduler, fn func(ctx context.Context) (T, error)) (T, error) {
	var v T
	err := s.Invoke(ctx, func(ctx context.Context) error {
		var err error
		v, err = fn(ctx)
		return err
	})
	return v, err
}

// CallAsync queues fn and returns a Future for its value.
func CallAsync[T any](ctx context.Context, s Scheduler, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := &Future[T]{}
	f.Operation = s.InvokeAsync(ctx, func(ctx context.Context) error {
		var err error
		f.value, err = fn(ctx)
		return err
	})
	return f
}
