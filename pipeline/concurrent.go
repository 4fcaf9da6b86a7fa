package pipeline

import (
	"context"
	"sync"
)

// Buffer adds a buffered channel between pipeline stages.
// This decouples the production rate from the consumption rate.
func Buffer[T any](p *Pipeline[T], size int) *Pipeline[T] {
	if size <= 0 {
		size = 1
	}
	return &Pipeline[T]{
		create: func(ctx context.Context) Iterator[T] {
			source := p.create(ctx)
			bufCtx, cancel := context.WithCancel(ctx)
			ch := make(chan result[T], size)

			go func() {
				defer close(ch)
				for {
					val, ok, err := source.Next(bufCtx)
					if err != nil {
						select {
						case ch <- result[T]{err: err}:
						case <-bufCtx.Done():
						}
						return
					}
					if !ok {
						return
					}
					select {
					case ch <- result[T]{val: val, ok: true}:
					case <-bufCtx.Done():
						return
					}
				}
			}()

			return &channelIter[T]{
				ch: ch,
				closer: func() error {
					cancel()
					return source.Close()
				},
			}
		},
	}
}

// Merge combines multiple pipelines concurrently.
// Values are yielded as they become available from any source.
// Order is NOT preserved. A source that ends (including one absorbed by
// Recover) stops contributing without ending the merged stream until all
// sources are done.
func Merge[T any](pipelines ...*Pipeline[T]) *Pipeline[T] {
	return &Pipeline[T]{
		create: func(ctx context.Context) Iterator[T] {
			mergeCtx, cancel := context.WithCancel(ctx)
			ch := make(chan result[T], len(pipelines))
			var wg sync.WaitGroup
			iters := make([]Iterator[T], len(pipelines))

			for i, p := range pipelines {
				iters[i] = p.create(mergeCtx)
				wg.Add(1)
				go func(iter Iterator[T]) {
					defer wg.Done()
					for {
						val, ok, err := iter.Next(mergeCtx)
						if err != nil {
							select {
							case ch <- result[T]{err: err}:
							case <-mergeCtx.Done():
							}
							return
						}
						if !ok {
							return
						}
						select {
						case ch <- result[T]{val: val, ok: true}:
						case <-mergeCtx.Done():
							return
						}
					}
				}(iters[i])
			}

			go func() {
				wg.Wait()
				close(ch)
			}()

			return &channelIter[T]{
				ch: ch,
				closer: func() error {
					cancel()
					var firstErr error
					for _, iter := range iters {
						if err := iter.Close(); err != nil && firstErr == nil {
							firstErr = err
						}
					}
					return firstErr
				},
			}
		},
	}
}
