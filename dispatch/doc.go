// Package dispatch runs units of work on a single logical thread that an
// external loop pumps.
//
// Units submitted with [Dispatcher.Invoke] or [Dispatcher.InvokeAsync] are
// queued in FIFO order and run only inside [Dispatcher.Pump],
// [Dispatcher.RunUntil] or [Dispatcher.Drain]. The context handed to a unit is
// marked so that nested calls can detect they already own the thread
// ([Dispatcher.CheckAccess]) and run inline instead of deadlocking.
//
// Long-running bodies are started with [Dispatcher.Go]. They run on their own
// goroutine and must round-trip to the dispatcher to touch shared state:
//
//	op := d.Go(ctx, func(ctx context.Context) error {
//		for i := 0; i < 3; i++ {
//			if err := dispatch.Delay(ctx, time.Second); err != nil {
//				return err
//			}
//			d.InvokeAsync(ctx, func(context.Context) error {
//				grid.WriteText("tick\n")
//				return nil
//			})
//		}
//		return nil
//	})
//	op.OnComplete(func(err error) { ... })
//
// Cancellation is cooperative: a canceled unit that has not started is
// skipped, and a running body observes ctx.Done().
package dispatch
