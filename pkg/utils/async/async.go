package async

import (
	"context"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Go executes a long-running handler in its own goroutine with panic recovery. The
// handler shares ctx, so cancelling ctx stops it. The returned channel receives the
// handler's error (nil on success, a wrapped panic otherwise) and is then closed.
func Go(ctx context.Context, name string, handler func(ctx context.Context) error) <-chan error {
	done := make(chan error, 1)

	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				ctxlog.From(ctx).Error("Panic in async handler",
					"name", name,
					"recover", r,
					"stack", string(stack),
				)
				done <- goerr.New("panic in async handler",
					goerr.V("name", name),
					goerr.V("recover", r))
			}
		}()

		if err := handler(ctx); err != nil {
			ctxlog.From(ctx).Error("Error in async handler",
				"name", name,
				"error", err,
			)
			done <- err
			return
		}
		done <- nil
	}()

	return done
}
