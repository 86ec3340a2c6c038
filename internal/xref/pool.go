package xref

import (
	"context"
	"sync"
)

// runIndexed calls fn(i) for every i in [0, n) on up to workers goroutines.
// Each fn writes only its own slot of a caller-owned slice, so callers can
// merge results in index order afterwards. Dispatch stops when ctx is done;
// the context error is returned after in-flight calls finish.
func runIndexed(ctx context.Context, n, workers int, fn func(i int)) error {
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				fn(i)
			}
		}()
	}

	var err error
dispatch:
	for i := 0; i < n; i++ {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	return err
}
