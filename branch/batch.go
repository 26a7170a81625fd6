package branch

import (
	"sync"

	"github.com/pkg/errors"
	"q.log/mincover/model"
)

// SolveAll solves independent problems on up to workers goroutines and
// returns the results in input order. If any solve fails, the error of the
// first failing problem (by index) is returned along with the partial
// results.
func (s *Solver) SolveAll(problems []*model.Problem, workers int) ([]*Result, error) {
	workers = max(1, min(workers, len(problems)))
	results := make([]*Result, len(problems))
	errs := make([]error, len(problems))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i], errs[i] = s.Solve(problems[i])
			}
		}()
	}
	for i := range problems {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return results, errors.Wrapf(err, "problem %d", i)
		}
	}
	return results, nil
}
