package dispatch

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func appendUnit(log *[]string, name string) Func {
	return func(context.Context) error {
		*log = append(*log, name)
		return nil
	}
}

func TestFIFOOrder(t *testing.T) {
	d := New()
	ctx := context.Background()
	var order []string

	d.InvokeAsync(ctx, func(ctx context.Context) error {
		order = append(order, "a")
		d.InvokeAsync(ctx, appendUnit(&order, "c"))
		return nil
	})
	d.InvokeAsync(ctx, appendUnit(&order, "b"))

	if n := d.Drain(); n != 3 {
		t.Errorf("expected 3 units, got %d", n)
	}
	if fmt.Sprint(order) != "[a b c]" {
		t.Errorf("unexpected order %v", order)
	}
	if d.Len() != 0 {
		t.Errorf("expected empty queue, got %d", d.Len())
	}
}

func TestRunUntilBudget(t *testing.T) {
	var now time.Time
	d := New(WithClock(func() time.Time { return now }))
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		d.InvokeAsync(ctx, func(context.Context) error {
			now = now.Add(10 * time.Millisecond)
			return nil
		})
	}

	if n := d.RunUntil(25 * time.Millisecond); n != 3 {
		t.Errorf("expected 3 units within the budget, got %d", n)
	}
	if d.Len() != 2 {
		t.Errorf("expected 2 units left, got %d", d.Len())
	}
	if n := d.RunUntil(0); n != 1 {
		t.Errorf("expected a zero budget to still run one unit, got %d", n)
	}
	if n := d.RunUntil(time.Hour); n != 1 {
		t.Errorf("expected the last unit, got %d", n)
	}
	if n := d.Pump(false); n != 0 {
		t.Errorf("expected nothing to pump, got %d", n)
	}
}

func TestAccess(t *testing.T) {
	d := New()
	other := New()
	ctx := context.Background()

	if d.CheckAccess(ctx) {
		t.Error("expected no access outside a unit")
	}
	if err := d.VerifyAccess(ctx); !errors.Is(err, ErrWrongThread) {
		t.Errorf("expected ErrWrongThread, got %v", err)
	}

	var inside, foreign, inlined bool
	d.InvokeAsync(ctx, func(ctx context.Context) error {
		inside = d.CheckAccess(ctx)
		foreign = other.CheckAccess(ctx)
		return d.Invoke(ctx, func(ctx context.Context) error {
			inlined = d.VerifyAccess(ctx) == nil
			return nil
		})
	})
	d.Drain()

	if !inside || foreign || !inlined {
		t.Errorf("inside=%v foreign=%v inlined=%v", inside, foreign, inlined)
	}
}

func TestPanicIsCaptured(t *testing.T) {
	d := New()
	ctx := context.Background()
	var ran bool

	op := d.InvokeAsync(ctx, func(context.Context) error { panic("boom") })
	d.InvokeAsync(ctx, func(context.Context) error {
		ran = true
		return nil
	})
	d.Drain()

	var pe *PanicError
	if !errors.As(op.Result(), &pe) || pe.Value != "boom" || len(pe.Stack) == 0 {
		t.Fatalf("expected a PanicError with stack, got %v", op.Result())
	}
	if op.Outcome() != Failed {
		t.Errorf("expected Failed, got %s", op.Outcome())
	}
	if !ran {
		t.Error("expected the queue to keep running after a panic")
	}
	if s := d.Stats(); s.Panicked != 1 || s.Failed != 1 || s.Executed != 2 {
		t.Errorf("unexpected stats %+v", s)
	}
}

func TestCanceledBeforeStart(t *testing.T) {
	d := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	op := d.InvokeAsync(ctx, func(context.Context) error {
		called = true
		return nil
	})
	d.Drain()

	if called {
		t.Error("expected a canceled unit to be skipped")
	}
	if op.Outcome() != Canceled {
		t.Errorf("expected Canceled, got %s", op.Outcome())
	}
	if d.Stats().Canceled != 1 {
		t.Errorf("expected one canceled unit, got %+v", d.Stats())
	}
}

func TestGoCompletesOnDispatcher(t *testing.T) {
	d := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pumping := false
	var completedWhilePumping bool
	var completedErr error

	op := d.Go(ctx, func(ctx context.Context) error {
		if d.CheckAccess(ctx) {
			return errors.New("background body must not own the dispatcher")
		}
		<-ctx.Done()
		return ctx.Err()
	})
	op.OnComplete(func(err error) {
		completedWhilePumping = pumping
		completedErr = err
	})

	if err := op.Result(); !errors.Is(err, ErrPending) {
		t.Fatalf("expected pending operation, got %v", err)
	}
	cancel()

	deadline := time.Now().Add(5 * time.Second)
	for {
		pumping = true
		d.Drain()
		pumping = false
		select {
		case <-op.Done():
		default:
			if time.Now().After(deadline) {
				t.Fatal("background body never completed")
			}
			time.Sleep(time.Millisecond)
			continue
		}
		break
	}

	if !completedWhilePumping {
		t.Error("expected completion callback to run inside the pump")
	}
	if Classify(completedErr) != Canceled || op.Outcome() != Canceled {
		t.Errorf("expected Canceled, got %v", completedErr)
	}

	late := false
	op.OnComplete(func(error) { late = true })
	if !late {
		t.Error("expected a late callback to run immediately")
	}
}

func TestRoundTripsFromBackground(t *testing.T) {
	d := New()
	runCtx, stop := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		_ = d.Run(runCtx, time.Millisecond)
		close(stopped)
	}()

	var lines []string
	op := d.Go(context.Background(), func(ctx context.Context) error {
		for i := 0; i < 3; i++ {
			if err := d.Invoke(ctx, appendUnit(&lines, fmt.Sprint(i))); err != nil {
				return err
			}
		}
		n, err := Call(ctx, d, func(ctx context.Context) (int, error) {
			return len(lines), d.VerifyAccess(ctx)
		})
		if err != nil {
			return err
		}
		if n != 3 {
			return fmt.Errorf("expected 3 lines, got %d", n)
		}
		return nil
	})

	waitCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := op.Wait(waitCtx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	stop()
	<-stopped

	if fmt.Sprint(lines) != "[0 1 2]" {
		t.Errorf("unexpected lines %v", lines)
	}
}

func TestCallAsync(t *testing.T) {
	d := New()
	f := CallAsync(context.Background(), d, func(context.Context) (string, error) {
		return "done", nil
	})
	if _, err := f.Value(); !errors.Is(err, ErrPending) {
		t.Errorf("expected pending value, got %v", err)
	}
	d.Drain()

	v, err := f.Await(context.Background())
	if err != nil || v != "done" {
		t.Errorf("Await = %q, %v", v, err)
	}
}

func TestClose(t *testing.T) {
	d := New()
	ctx := context.Background()
	pending := d.InvokeAsync(ctx, func(context.Context) error { return nil })

	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !errors.Is(pending.Result(), ErrClosed) {
		t.Errorf("expected pending unit to fail with ErrClosed, got %v", pending.Result())
	}
	if err := d.InvokeAsync(ctx, func(context.Context) error { return nil }).Result(); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if err := d.Invoke(ctx, func(context.Context) error { return nil }); !errors.Is(err, ErrClosed) {
		t.Errorf("expected Invoke to fail with ErrClosed, got %v", err)
	}
	if err := d.Go(ctx, func(context.Context) error { return nil }).Result(); !errors.Is(err, ErrClosed) {
		t.Errorf("expected Go to fail with ErrClosed, got %v", err)
	}
	if d.Close() != nil {
		t.Error("expected Close to be idempotent")
	}
}

func TestCloseCompletesBackgroundBodies(t *testing.T) {
	tests := []struct {
		name     string
		queued   bool
		expected Outcome
	}{
		{"delivery already queued", true, Succeeded},
		{"body still running", false, Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New()
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			op := d.Go(ctx, func(ctx context.Context) error {
				if tt.queued {
					return nil
				}
				<-ctx.Done()
				time.Sleep(10 * time.Millisecond)
				return ctx.Err()
			})
			closing := false
			var completedWhileClosing bool
			op.OnComplete(func(error) { completedWhileClosing = closing })

			if tt.queued {
				deadline := time.Now().Add(5 * time.Second)
				for d.Len() == 0 {
					if time.Now().After(deadline) {
						t.Fatal("delivery never queued")
					}
					time.Sleep(time.Millisecond)
				}
			}

			cancel()
			closing = true
			if err := d.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}
			closing = false

			select {
			case <-op.Done():
			default:
				t.Fatal("expected Close to complete the background operation")
			}
			if !completedWhileClosing {
				t.Error("expected the completion callback to run inside Close")
			}
			if op.Outcome() != tt.expected {
				t.Errorf("expected %s, got %s (%v)", tt.expected, op.Outcome(), op.Result())
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want Outcome
	}{
		{nil, Succeeded},
		{errors.New("x"), Failed},
		{context.Canceled, Canceled},
		{fmt.Errorf("sleep: %w", context.Canceled), Canceled},
		{context.DeadlineExceeded, Failed},
		{&PanicError{Value: 1}, Failed},
	}

	for _, tt := range tests {
		if got := Classify(tt.err); got != tt.want {
			t.Errorf("Classify(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}

func TestDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Delay(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("expected Canceled, got %v", err)
	}
	if err := Delay(context.Background(), time.Millisecond); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}
