package runner

import "sync"

// RunPool evaluates n independent jobs with at most maxWorkers running
// concurrently and returns one error slot per job, in input order.
// Cases share no mutable state, so neither grading order nor
// concurrency degree affects results.
func RunPool(maxWorkers, n int, run func(i int) error) []error {
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	errs := make([]error, n)
	sem := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			errs[i] = run(i)
		}(i)
	}
	wg.Wait()
	return errs
}
