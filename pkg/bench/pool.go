package bench

import (
	"runtime"
	"sync"
)

// runIndexed runs job(0..n-1) on up to workers goroutines. Results are stored
// by job index so the output order never depends on scheduling. done, when set,
// is called once per finished job with the running count.
func runIndexed[T any](n, workers int, job func(i int) T, done func(finished, total int)) []T {
	results := make([]T, n)
	if n == 0 {
		return results
	}
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}

	tasks := make(chan int, n)
	for i := 0; i < n; i++ {
		tasks <- i
	}
	close(tasks)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		finished int
	)
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range tasks {
				results[i] = job(i)
				if done != nil {
					mu.Lock()
					finished++
					done(finished, n)
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()
	return results
}
