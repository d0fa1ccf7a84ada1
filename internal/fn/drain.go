package fn

import "context"

// Drain consumes ch, applying handle to each item in turn, the channel
// analogue of consuming an async generator with a per-item handler. It
// returns when ch closes (nil), ctx is cancelled (ctx.Err()), or handle
// returns an error (that error).
func Drain[T any](ctx context.Context, ch <-chan T, handle func(context.Context, T) error) error {
	for {
		select {
		case v, ok := <-ch:
			if !ok {
				return nil
			}
			if err := handle(ctx, v); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
