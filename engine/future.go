package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Konsultn-Engineering/minorm/builder"
	"github.com/Konsultn-Engineering/minorm/ormerr"
)

// Future is the pending result of an asynchronous call. Errors are delivered
// as *ormerr.AsyncError; their kind survives unwrapping, so
// errors.Is(err, ormerr.ErrUnsupportedOption) works on both paths.
type Future[R any] struct {
	done  chan struct{}
	value R
	err   error
}

// Wait blocks until the call completes.
func (f *Future[R]) Wait() (R, error) {
	<-f.done
	return f.value, f.err
}

// Done is closed when the call completes.
func (f *Future[R]) Done() <-chan struct{} { return f.done }

func failed[R any](op string, err error) *Future[R] {
	f := &Future[R]{done: make(chan struct{}), err: ormerr.NewAsyncError(op, err)}
	close(f.done)
	return f
}

// start runs stmt on a goroutine. A statement that could not be prepared
// (prepErr != nil) never starts; the future completes with that error.
func start[R any](ctx context.Context, op string, stmt *builder.Statement, prepErr error,
	run func(context.Context, *builder.Statement) (R, error)) *Future[R] {
	if prepErr != nil {
		return failed[R](op, prepErr)
	}

	f := &Future[R]{done: make(chan struct{})}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := run(gctx, stmt)
		if err != nil {
			return err
		}
		f.value = v
		return nil
	})
	go func() {
		f.err = ormerr.NewAsyncError(op, g.Wait())
		close(f.done)
	}()
	return f
}

